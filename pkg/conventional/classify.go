package conventional

import (
	"regexp"

	"github.com/corel/pkg/version"
)

// Rule maps commit messages matching Pattern to Severity.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	Severity version.Severity
}

// Rules are checked in order; the first match wins. Messages that match none
// of them are patch level.
var Rules = []Rule{
	{
		Name:     "breaking change",
		Pattern:  regexp.MustCompile(`(?i)^(BREAKING[ -]CHANGE)\s?(\([^)]*\))?\s?:\s*(.+)`),
		Severity: version.Major,
	},
	{
		Name:     "breaking marker",
		Pattern:  regexp.MustCompile(`(?i)^[a-z]+\s?(\([^)]*\))?!\s?:\s*(.+)`),
		Severity: version.Major,
	},
	{
		Name:     "feature",
		Pattern:  regexp.MustCompile(`(?i)^(feat|refactor)\s?(\([^)]*\))?\s?:\s*(.+)`),
		Severity: version.Minor,
	},
}

// Patch types are listed for reference only; anything that is not major or
// minor already classifies as a patch.
var patchPattern = regexp.MustCompile(`(?i)^(build|chore|ci|docs|env|fix|perf|revert|style|test)\s?(\([^)]*\))?\s?:\s*(.+)`)

// Classify returns the bump severity implied by a commit message. It never
// returns version.None.
func Classify(message string) version.Severity {
	sev, _ := Explain(message)
	return sev
}

// Explain is like Classify but also names the rule that matched. Messages that
// fall through get "patch" for recognised patch types and "other" for anything
// else.
func Explain(message string) (version.Severity, string) {
	for _, r := range Rules {
		if r.Pattern.MatchString(message) {
			return r.Severity, r.Name
		}
	}
	if patchPattern.MatchString(message) {
		return version.Patch, "patch"
	}
	return version.Patch, "other"
}
