package tags

import (
	"github.com/corel/pkg/version"
)

// Tag is a tag name together with the version it parses to.
type Tag struct {
	Name    string
	Version version.Version
}

// Parse returns the tag for name, or false if name is not a version.
func Parse(name string) (Tag, bool) {
	v, err := version.Parse(name)
	if err != nil {
		return Tag{}, false
	}
	return Tag{Name: name, Version: v}, true
}

// SelectLatest returns the tag with the greatest version. Names that do not
// parse are skipped. When several tags carry the same version, the first one
// in input order is kept. The second result is false if no name parsed.
func SelectLatest(names []string) (Tag, bool) {
	var best Tag
	found := false
	for _, name := range names {
		tag, ok := Parse(name)
		if !ok {
			continue
		}
		if !found || version.Compare(tag.Version, best.Version) > 0 {
			best = tag
			found = true
		}
	}
	return best, found
}
