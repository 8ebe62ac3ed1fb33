package release

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/corel/pkg/vcs"
	"github.com/corel/pkg/version"
)

// fakeBackend is an in-memory linear history. Tags map to an index into
// commits.
type fakeBackend struct {
	commits  []vcs.Commit
	tagNames []string
	tagAt    map[string]int

	created []string
	pushed  []string
	walks   []string

	createErr error
	pushErr   error
	listErr   error
}

func newFake(messages ...string) *fakeBackend {
	f := &fakeBackend{tagAt: make(map[string]int)}
	for i, m := range messages {
		f.commits = append(f.commits, vcs.Commit{ID: fmt.Sprintf("c%d", i), Message: m})
	}
	return f
}

// tag points name at the commit with the given index.
func (f *fakeBackend) tag(name string, idx int) *fakeBackend {
	f.tagNames = append(f.tagNames, name)
	f.tagAt[name] = idx
	return f
}

func (f *fakeBackend) ListTagNames(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tagNames, nil
}

func (f *fakeBackend) HeadHasCommits(ctx context.Context) (bool, error) {
	return len(f.commits) > 0, nil
}

func (f *fakeBackend) WalkCommits(ctx context.Context, exclude string, limit int) ([]vcs.Commit, error) {
	f.walks = append(f.walks, exclude)
	start := 0
	if exclude != "" {
		found := false
		for i, c := range f.commits {
			if c.ID == exclude {
				start, found = i+1, true
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown commit %s", exclude)
		}
	}
	out := f.commits[start:]
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeBackend) ResolveRevision(ctx context.Context, name string) (string, error) {
	idx, ok := f.tagAt[name]
	if !ok || idx >= len(f.commits) {
		return "", fmt.Errorf("%w: %s", vcs.ErrRevisionNotFound, name)
	}
	return f.commits[idx].ID, nil
}

func (f *fakeBackend) CreateTag(ctx context.Context, name, at string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name+"@"+at)
	return nil
}

func (f *fakeBackend) PushTag(ctx context.Context, name string) error {
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushed = append(f.pushed, name)
	return nil
}

type recordLogger struct {
	lines []string
}

func (l *recordLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, "debug: "+fmt.Sprintf(format, args...))
}

func TestRunAggregatesSinceLatestTag(t *testing.T) {
	f := newFake("chore: init", "feat: old", "fix: a", "feat: b", "chore: c").
		tag("v1.2.3", 0).
		tag("not-a-tag", 1).
		tag("v1.3.0", 1).
		tag("v1.2.9", 0)

	res, err := New(f, Options{Mode: DryRun}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Baseline != "v1.3.0" || res.Previous != "v1.3.0" {
		t.Fatalf("baseline = %s (%s), want v1.3.0", res.Baseline, res.Previous)
	}
	if res.Next != "v1.4.0" {
		t.Fatalf("Next = %s, want v1.4.0", res.Next)
	}
	if res.Highest != version.Minor || res.Commits.Total() != 3 {
		t.Fatalf("Highest = %s, commits = %+v", res.Highest, res.Commits)
	}
	if len(f.walks) != 1 || f.walks[0] != "c1" {
		t.Fatalf("walks = %v, want one walk excluding c1", f.walks)
	}
	if len(f.created) != 0 {
		t.Fatalf("dry run created tags: %v", f.created)
	}
}

func TestRunOneBumpForSeveralFeatures(t *testing.T) {
	f := newFake("chore: init", "feat: a", "feat: b").tag("v1.3.0", 0)

	res, err := New(f, Options{Mode: PrintOnly}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Next != "v1.4.0" {
		t.Fatalf("Next = %s, want v1.4.0", res.Next)
	}
}

func TestRunAutoInitPerCommit(t *testing.T) {
	f := newFake("initial", "fix: a", "docs: b")

	res, err := New(f, Options{Mode: Tag, AutoInit: true, InitialVersion: "v0.1.0", NoPush: true}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.AutoInit || res.Baseline != "" {
		t.Fatalf("expected auto-init result, got %+v", res)
	}
	if res.Next != "v0.1.3" {
		t.Fatalf("Next = %s, want v0.1.3", res.Next)
	}
	if len(f.walks) != 1 || f.walks[0] != "" {
		t.Fatalf("walks = %q, want a single unbounded walk", f.walks)
	}
	if len(f.created) != 1 || f.created[0] != "v0.1.3@HEAD" {
		t.Fatalf("created = %v, want [v0.1.3@HEAD]", f.created)
	}
	if len(f.pushed) != 0 || res.Pushed {
		t.Fatalf("no-push run pushed %v", f.pushed)
	}
}

func TestRunAutoInitDefaultsInitialVersion(t *testing.T) {
	f := newFake("feat: a")

	res, err := New(f, Options{Mode: DryRun, AutoInit: true}, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Previous != "v0.1.0" || res.Next != "v0.2.0" {
		t.Fatalf("Previous/Next = %s/%s, want v0.1.0/v0.2.0", res.Previous, res.Next)
	}
}

func TestRunNoCommits(t *testing.T) {
	f := newFake().tag("v1.0.0", 0)
	f.listErr = errors.New("must not be called")

	_, err := New(f, Options{AutoInit: true}, nil).Run(context.Background())
	if !errors.Is(err, ErrNoCommits) {
		t.Fatalf("Run error = %v, want ErrNoCommits", err)
	}
}

func TestRunNoTagWithoutAutoInit(t *testing.T) {
	f := newFake("fix: a").tag("latest", 0)

	_, err := New(f, Options{Mode: Tag}, nil).Run(context.Background())
	if !errors.Is(err, ErrNoValidTag) {
		t.Fatalf("Run error = %v, want ErrNoValidTag", err)
	}
	if len(f.created) != 0 || len(f.walks) != 0 {
		t.Fatalf("engine touched the repository: created %v, walks %v", f.created, f.walks)
	}
}

func TestRunInvalidInitialVersion(t *testing.T) {
	f := newFake("fix: a")

	_, err := New(f, Options{AutoInit: true, InitialVersion: "one.two"}, nil).Run(context.Background())
	if !errors.Is(err, ErrInvalidInitialVersion) {
		t.Fatalf("Run error = %v, want ErrInvalidInitialVersion", err)
	}
}

func TestRunUnresolvableTag(t *testing.T) {
	f := newFake("fix: a").tag("v1.0.0", 5)

	_, err := New(f, Options{}, nil).Run(context.Background())
	if !errors.Is(err, ErrRevisionNotResolvable) {
		t.Fatalf("Run error = %v, want ErrRevisionNotResolvable", err)
	}
}

func TestRunCreatesAndPushes(t *testing.T) {
	f := newFake("chore: init", "BREAKING CHANGE: x").tag("v1.9.4", 0)
	log := &recordLogger{}

	res, err := New(f, Options{Mode: Tag, Head: "main"}, log).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Next != "v2.0.0" || !res.Created || !res.Pushed {
		t.Fatalf("result = %+v", res)
	}
	if len(f.created) != 1 || f.created[0] != "v2.0.0@main" {
		t.Fatalf("created = %v", f.created)
	}
	if len(f.pushed) != 1 || f.pushed[0] != "v2.0.0" {
		t.Fatalf("pushed = %v", f.pushed)
	}
	if len(log.lines) == 0 {
		t.Fatalf("expected progress output")
	}
}

func TestRunTagFailures(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		f := newFake("chore: init", "fix: a").tag("v1.0.0", 0)
		f.createErr = fmt.Errorf("%w: boom", vcs.ErrTagCreation)
		res, err := New(f, Options{Mode: Tag}, nil).Run(context.Background())
		if !errors.Is(err, vcs.ErrTagCreation) {
			t.Fatalf("Run error = %v, want ErrTagCreation", err)
		}
		if res.Created || len(f.pushed) != 0 {
			t.Fatalf("failed create must not push: %+v", res)
		}
	})
	t.Run("push", func(t *testing.T) {
		f := newFake("chore: init", "fix: a").tag("v1.0.0", 0)
		f.pushErr = fmt.Errorf("%w: rejected", vcs.ErrPush)
		res, err := New(f, Options{Mode: Tag}, nil).Run(context.Background())
		if !errors.Is(err, vcs.ErrPush) {
			t.Fatalf("Run error = %v, want ErrPush", err)
		}
		if !res.Created || res.Pushed {
			t.Fatalf("push failure should leave the local tag: %+v", res)
		}
	})
	t.Run("existing", func(t *testing.T) {
		// Nothing since the tag: the computed version equals the tag.
		f := newFake("chore: init").tag("v1.0.0", 0)
		_, err := New(f, Options{Mode: Tag}, nil).Run(context.Background())
		if !errors.Is(err, vcs.ErrTagCreation) {
			t.Fatalf("Run error = %v, want ErrTagCreation", err)
		}
		if len(f.created) != 0 {
			t.Fatalf("created = %v, want none", f.created)
		}
	})
}

func TestRunRefusesToWrapVersion(t *testing.T) {
	f := newFake("chore: init", "fix: a").tag("v1.2.18446744073709551615", 0)

	_, err := New(f, Options{Mode: Tag}, nil).Run(context.Background())
	if !errors.Is(err, version.ErrOverflow) {
		t.Fatalf("Run error = %v, want ErrOverflow", err)
	}
	if len(f.created) != 0 {
		t.Fatalf("created = %v, want none", f.created)
	}
}
