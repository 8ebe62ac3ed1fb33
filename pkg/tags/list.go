package tags

import (
	"sort"

	"golang.org/x/mod/semver"

	"github.com/corel/pkg/version"
)

// Entry describes one tag name for listing.
type Entry struct {
	Name    string `json:"name"`
	Valid   bool   `json:"valid"`
	Version string `json:"version,omitempty"`
	// Canonical is true when the name is already strict semver with a "v" prefix.
	Canonical bool `json:"canonical"`
	// Dropped holds the pre-release and build suffix that parsing discards.
	Dropped string `json:"dropped,omitempty"`
	Latest  bool   `json:"latest"`
}

// List describes every name, valid versions first in descending order, then
// invalid names alphabetically. The entry SelectLatest would pick is marked.
func List(names []string) []Entry {
	latest, hasLatest := SelectLatest(names)

	entries := make([]Entry, 0, len(names))
	parsed := make(map[string]version.Version)
	latestMarked := false
	for _, name := range names {
		e := Entry{Name: name}
		if tag, ok := Parse(name); ok {
			e.Valid = true
			e.Version = tag.Version.String()
			parsed[name] = tag.Version
			if hasLatest && !latestMarked && name == latest.Name {
				e.Latest = true
				latestMarked = true
			}
		}
		if semver.IsValid(name) {
			e.Canonical = semver.Canonical(name)+semver.Build(name) == name
			e.Dropped = semver.Prerelease(name) + semver.Build(name)
		} else if e.Valid {
			e.Dropped = suffix(name)
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Valid {
			return a.Name < b.Name
		}
		return version.Compare(parsed[a.Name], parsed[b.Name]) > 0
	})
	return entries
}

// suffix returns the part of a version tag starting at the first '-' or '+'.
func suffix(name string) string {
	for i, r := range name {
		if r == '-' || r == '+' {
			return name[i:]
		}
	}
	return ""
}
