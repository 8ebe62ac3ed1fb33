package version

import "fmt"

// Severity is the magnitude of change a commit implies.
type Severity int

const (
	// None means no commit was examined.
	None Severity = iota
	Patch
	Minor
	Major
)

func (s Severity) String() string {
	switch s {
	case None:
		return "none"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// rank orders severities explicitly instead of relying on the constant values.
func (s Severity) rank() int {
	switch s {
	case Major:
		return 3
	case Minor:
		return 2
	case Patch:
		return 1
	default:
		return 0
	}
}

// MoreSevere reports whether a is strictly more severe than b.
func MoreSevere(a, b Severity) bool {
	return a.rank() > b.rank()
}

// Max returns the more severe of a and b.
func Max(a, b Severity) Severity {
	if MoreSevere(b, a) {
		return b
	}
	return a
}

// MarshalText lets severities appear by name in json output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
