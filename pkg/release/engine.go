package release

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/corel/pkg/bump"
	"github.com/corel/pkg/tags"
	"github.com/corel/pkg/vcs"
	"github.com/corel/pkg/version"
)

var (
	ErrNoCommits             = errors.New("no commits reachable from head")
	ErrNoValidTag            = errors.New("no version tag found and auto-init is disabled")
	ErrInvalidInitialVersion = errors.New("invalid initial version")
	ErrRevisionNotResolvable = errors.New("latest tag does not resolve to a commit")
)

const (
	DefaultInitialVersion = "v0.1.0"
	defaultHead           = "HEAD"
)

// Mode says what happens with the computed version.
type Mode int

const (
	// Tag creates the tag and, unless NoPush is set, pushes it.
	Tag Mode = iota
	// DryRun computes the version without touching the repository.
	DryRun
	// PrintOnly computes the version and only prints it.
	PrintOnly
)

func (m Mode) String() string {
	switch m {
	case Tag:
		return "tag"
	case DryRun:
		return "dry-run"
	case PrintOnly:
		return "print-version"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Options configure a single run.
type Options struct {
	Mode           Mode
	AutoInit       bool
	InitialVersion string
	NoPush         bool
	// Head is the revision new tags are created at. Defaults to HEAD.
	Head string
}

// Logger receives progress messages.
type Logger interface {
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Debugf(string, ...any) {}

// Result describes a completed run.
type Result struct {
	// Baseline is the tag the bump started from; empty after auto-init.
	Baseline string `json:"baseline,omitempty"`
	AutoInit bool   `json:"auto_init"`
	Previous string `json:"previous"`
	Next     string `json:"next"`
	Mode     Mode   `json:"mode"`

	Strategy bump.Strategy    `json:"strategy"`
	Highest  version.Severity `json:"highest"`
	Commits  bump.Counts      `json:"commits"`

	Created bool `json:"created"`
	Pushed  bool `json:"pushed"`
}

// Engine computes the next version of a repository and optionally tags it.
type Engine struct {
	backend vcs.Backend
	opts    Options
	log     Logger
}

func New(backend vcs.Backend, opts Options, log Logger) *Engine {
	if opts.InitialVersion == "" {
		opts.InitialVersion = DefaultInitialVersion
	}
	if opts.Head == "" {
		opts.Head = defaultHead
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{
		backend: backend,
		opts:    opts,
		log:     log,
	}
}

// Run performs one version computation. Every failure ends the run; the
// partially filled Result is returned alongside the error.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	res := Result{Mode: e.opts.Mode}

	has, err := e.backend.HeadHasCommits(ctx)
	if err != nil {
		return res, fmt.Errorf("check for commits: %w", err)
	}
	if !has {
		return res, ErrNoCommits
	}

	e.log.Infof("Grabbing tags...")
	names, err := e.backend.ListTagNames(ctx)
	if err != nil {
		return res, fmt.Errorf("list tags: %w", err)
	}
	e.log.Infof("Tags: %d", len(names))

	latest, ok := tags.SelectLatest(names)
	if !ok {
		return e.autoInit(ctx, res, names)
	}
	return e.fromTag(ctx, res, latest, names)
}

func (e *Engine) fromTag(ctx context.Context, res Result, latest tags.Tag, names []string) (Result, error) {
	e.log.Infof("Found latest tag: %s (%d %d %d)", latest.Name, latest.Version.Major, latest.Version.Minor, latest.Version.Patch)
	res.Baseline = latest.Name
	res.Previous = latest.Version.String()

	at, err := e.backend.ResolveRevision(ctx, latest.Name)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %v", ErrRevisionNotResolvable, latest.Name, err)
	}
	e.log.Debugf("Latest tag refers to commit %s", at)

	commits, err := e.backend.WalkCommits(ctx, at, 0)
	if err != nil {
		return res, fmt.Errorf("collect commits since %s: %w", latest.Name, err)
	}
	return e.finish(ctx, res, latest.Version, commits, bump.Highest, names)
}

func (e *Engine) autoInit(ctx context.Context, res Result, names []string) (Result, error) {
	if !e.opts.AutoInit {
		return res, ErrNoValidTag
	}
	res.AutoInit = true

	e.log.Infof("No tags have been created yet. Figuring out initial version, starting from %s", e.opts.InitialVersion)
	initial, err := version.Parse(e.opts.InitialVersion)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrInvalidInitialVersion, err)
	}
	res.Previous = initial.String()

	commits, err := e.backend.WalkCommits(ctx, "", 0)
	if err != nil {
		return res, fmt.Errorf("collect commits: %w", err)
	}
	return e.finish(ctx, res, initial, commits, bump.PerCommit, names)
}

func (e *Engine) finish(ctx context.Context, res Result, from version.Version, commits []vcs.Commit, strategy bump.Strategy, names []string) (Result, error) {
	if len(commits) > 0 {
		e.log.Infof("Woaah, you have %d commit(s)", len(commits))
	}

	b, err := bump.Apply(from, commits, strategy)
	if err != nil {
		return res, fmt.Errorf("bump %s: %w", from, err)
	}
	res.Next = b.To.String()
	res.Strategy = b.Strategy
	res.Highest = b.Highest
	res.Commits = b.Counts
	e.log.Debugf("Bumped version from %s->%s in %d commits (%s)", b.From, b.To, len(commits), strategy)

	if e.opts.Mode != Tag {
		return res, nil
	}

	if slices.Contains(names, res.Next) {
		return res, fmt.Errorf("%w: tag %s already exists", vcs.ErrTagCreation, res.Next)
	}
	if err := e.backend.CreateTag(ctx, res.Next, e.opts.Head); err != nil {
		return res, err
	}
	res.Created = true
	e.log.Infof("Created tag %s", res.Next)

	if e.opts.NoPush {
		return res, nil
	}
	if err := e.backend.PushTag(ctx, res.Next); err != nil {
		return res, err
	}
	res.Pushed = true
	e.log.Infof("Pushed tag %s", res.Next)
	return res, nil
}
