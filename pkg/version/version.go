package version

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalid is returned when a string does not match the version grammar.
var ErrInvalid = errors.New("invalid version string")

// ErrOverflow is returned when a bump would wrap a component around.
var ErrOverflow = errors.New("version component overflow")

// The patch component may be empty ("v1.2.") and defaults to 0. Pre-release and
// build metadata are matched so that malformed suffixes are rejected, but they
// are not kept.
var pattern = regexp.MustCompile(`^[vV]?(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)?(-[[:alnum:]-]+(\.[[:alnum:]-]+)*)?(\+[[:alnum:]-]+(\.[[:alnum:]-]+)*)?$`)

// Version is a major.minor.patch triple. The zero value is v0.0.0.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse reads a version from a tag name or a user supplied string such as
// "v1.2.3", "1.2.3-rc.1+build.5" or "v1.2.".
func Parse(s string) (Version, error) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	var v Version
	fields := []*uint64{&v.Major, &v.Minor, &v.Patch}
	for i, dst := range fields {
		raw := m[i+1]
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
		}
		*dst = n
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 comparing a to b on (major, minor, patch).
func Compare(a, b Version) int {
	if c := cmp(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmp(a.Minor, b.Minor); c != 0 {
		return c
	}
	return cmp(a.Patch, b.Patch)
}

func cmp(a, b uint64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// String renders the canonical tag name "vMAJOR.MINOR.PATCH". Any pre-release
// or build suffix of the parsed input is gone at this point.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns v incremented by the given severity. It fails with ErrOverflow
// when the component to increment is already at its maximum.
//
// Below 1.0.0 a Major severity increments the minor component instead: the
// public API of a v0 module is not considered stable, so breaking changes
// there do not leave the v0 line.
func (v Version) Bump(s Severity) (Version, error) {
	switch s {
	case Major:
		if v.Major == 0 {
			return v.Bump(Minor)
		}
		if v.Major == math.MaxUint64 {
			return v, fmt.Errorf("%w: major of %s", ErrOverflow, v)
		}
		return Version{Major: v.Major + 1}, nil
	case Minor:
		if v.Minor == math.MaxUint64 {
			return v, fmt.Errorf("%w: minor of %s", ErrOverflow, v)
		}
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case Patch:
		if v.Patch == math.MaxUint64 {
			return v, fmt.Errorf("%w: patch of %s", ErrOverflow, v)
		}
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return v, nil
	}
}
