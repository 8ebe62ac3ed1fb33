package vcs

import (
	"context"
	"errors"
)

var (
	ErrNotRepository    = errors.New("not a repository")
	ErrRevisionNotFound = errors.New("revision not found")
	ErrTagCreation      = errors.New("tag creation failed")
	ErrPush             = errors.New("tag push failed")
)

// Commit is a single commit as produced by a history walk.
type Commit struct {
	ID      string
	Message string
}

// Backend is the set of repository operations the release engine needs.
type Backend interface {
	// ListTagNames returns the names of all tags in the repository.
	ListTagNames(ctx context.Context) ([]string, error)

	// HeadHasCommits reports whether at least one commit is reachable from head.
	HeadHasCommits(ctx context.Context) (bool, error)

	// WalkCommits returns the commits reachable from head that are not
	// reachable from exclude, oldest first. An empty exclude walks the whole
	// history. A positive limit keeps only the newest limit commits, still
	// ordered oldest first; a limit <= 0 means unbounded.
	WalkCommits(ctx context.Context, exclude string, limit int) ([]Commit, error)

	// ResolveRevision returns the commit id a revision name points to.
	ResolveRevision(ctx context.Context, name string) (string, error)

	// CreateTag creates a lightweight tag called name at the given revision.
	CreateTag(ctx context.Context, name, at string) error

	// PushTag publishes a previously created tag to the remote.
	PushTag(ctx context.Context, name string) error
}
