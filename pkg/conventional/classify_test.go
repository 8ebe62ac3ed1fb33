package conventional

import (
	"testing"

	"github.com/corel/pkg/version"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    version.Severity
	}{
		{"BREAKING CHANGE: drop v1 api", version.Major},
		{"breaking change(api): rename field", version.Major},
		{"BREAKING-CHANGE: removed flag", version.Major},
		{"BREAKING CHANGE : spaced colon", version.Major},
		{"feat!: new config format", version.Major},
		{"fix(parser)!: reject old syntax", version.Major},
		{"feat: add tags command", version.Minor},
		{"FEAT: shouting", version.Minor},
		{"feat(cli): add --no-push", version.Minor},
		{"feat (cli) : loose spacing", version.Minor},
		{"refactor: split engine", version.Minor},
		{"fix: off by one", version.Patch},
		{"chore(deps): bump cobra", version.Patch},
		{"chore(deps): bump (x)!: y", version.Patch},
		{"feat(cli): wrap (args): z", version.Minor},
		{"docs: readme", version.Patch},
		{"Merge branch 'main'", version.Patch},
		{"feature: not a recognised type", version.Patch},
		{"feat add missing colon", version.Patch},
		{"feat:", version.Patch},
		{"  feat: leading space", version.Patch},
		{"update readme\n\nBREAKING CHANGE: only in the footer", version.Patch},
		{"", version.Patch},
	}
	for _, tc := range tests {
		if got := Classify(tc.message); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassifyNeverNone(t *testing.T) {
	for _, msg := range []string{"", "x", "wip", "feat", ":", "BREAKING", "\n\n"} {
		if got := Classify(msg); got == version.None {
			t.Errorf("Classify(%q) returned None", msg)
		}
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		message string
		rule    string
	}{
		{"BREAKING CHANGE: x", "breaking change"},
		{"feat!: x", "breaking marker"},
		{"refactor: x", "feature"},
		{"perf: x", "patch"},
		{"wip", "other"},
	}
	for _, tc := range tests {
		if _, rule := Explain(tc.message); rule != tc.rule {
			t.Errorf("Explain(%q) rule = %q, want %q", tc.message, rule, tc.rule)
		}
	}
}
