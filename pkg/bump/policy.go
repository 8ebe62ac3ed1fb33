package bump

import (
	"fmt"

	"github.com/corel/pkg/conventional"
	"github.com/corel/pkg/vcs"
	"github.com/corel/pkg/version"
)

// Strategy decides how classified commits turn into version increments.
type Strategy int

const (
	// Highest applies the single most severe change once. Used for regular
	// releases on top of an existing tag.
	Highest Strategy = iota
	// PerCommit applies one bump per commit in order. Used when building an
	// initial version from the whole history.
	PerCommit
)

func (s Strategy) String() string {
	switch s {
	case Highest:
		return "highest"
	case PerCommit:
		return "per-commit"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of applying a strategy to a version.
type Result struct {
	From     version.Version
	To       version.Version
	Strategy Strategy
	// Highest is the most severe classification seen, None for no commits.
	Highest version.Severity
	Counts  Counts
}

// Counts tallies commits per severity.
type Counts struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
	Patch int `json:"patch"`
}

func (c *Counts) add(s version.Severity) {
	switch s {
	case version.Major:
		c.Major++
	case version.Minor:
		c.Minor++
	case version.Patch:
		c.Patch++
	}
}

// Total is the number of commits counted.
func (c Counts) Total() int {
	return c.Major + c.Minor + c.Patch
}

// Apply classifies every commit and bumps from accordingly. An empty commit
// list leaves the version unchanged under either strategy. A bump past the
// largest representable version returns version.ErrOverflow.
func Apply(from version.Version, commits []vcs.Commit, strategy Strategy) (Result, error) {
	res := Result{From: from, To: from, Strategy: strategy, Highest: version.None}
	for _, c := range commits {
		sev := conventional.Classify(c.Message)
		res.Counts.add(sev)
		res.Highest = version.Max(res.Highest, sev)
		if strategy == PerCommit {
			next, err := res.To.Bump(sev)
			if err != nil {
				return res, fmt.Errorf("commit %s: %w", c.ID, err)
			}
			res.To = next
		}
	}
	if strategy == Highest {
		next, err := from.Bump(res.Highest)
		if err != nil {
			return res, err
		}
		res.To = next
	}
	return res, nil
}
