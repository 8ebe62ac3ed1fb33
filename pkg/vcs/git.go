package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	unitSep   = "\x1f"
	recordSep = "\x1e"
)

// GitRepo drives a local repository through the git command line.
type GitRepo struct {
	Path   string
	Remote string
	Head   string
}

// OpenGit checks that path is inside a git work tree or git dir.
func OpenGit(ctx context.Context, path, remote string) (*GitRepo, error) {
	if remote == "" {
		remote = "origin"
	}
	r := &GitRepo{Path: path, Remote: remote, Head: "HEAD"}
	if _, err := r.git(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	return r, nil
}

func (r *GitRepo) ListTagNames(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--list")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (r *GitRepo) HeadHasCommits(ctx context.Context) (bool, error) {
	// rev-parse --quiet exits 1 without output on an unborn branch.
	_, err := r.git(ctx, "rev-parse", "--verify", "--quiet", r.Head+"^{commit}")
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if ctx.Err() == nil && errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("check head %s: %w", r.Head, err)
}

func (r *GitRepo) WalkCommits(ctx context.Context, exclude string, limit int) ([]Commit, error) {
	// -n is applied before --reverse, so a bounded walk keeps the newest
	// commits and still returns them oldest first.
	args := []string{"log", "--date-order", "--reverse", "--format=%H" + unitSep + "%B" + recordSep}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	rev := r.Head
	if exclude != "" {
		rev = exclude + ".." + r.Head
	}
	args = append(args, rev, "--")

	out, err := r.git(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("walk commits %s: %w", rev, err)
	}
	return parseLog(out), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\n")
		if rec == "" {
			continue
		}
		id, msg, ok := strings.Cut(rec, unitSep)
		if !ok {
			continue
		}
		commits = append(commits, Commit{
			ID:      strings.TrimSpace(id),
			Message: strings.TrimSpace(msg),
		})
	}
	return commits
}

func (r *GitRepo) ResolveRevision(ctx context.Context, name string) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", name+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRevisionNotFound, name)
	}
	return strings.TrimSpace(out), nil
}

func (r *GitRepo) CreateTag(ctx context.Context, name, at string) error {
	if at == "" {
		at = r.Head
	}
	if _, err := r.git(ctx, "tag", name, at); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTagCreation, name, err)
	}
	return nil
}

func (r *GitRepo) PushTag(ctx context.Context, name string) error {
	if _, err := r.git(ctx, "push", r.Remote, "refs/tags/"+name); err != nil {
		return fmt.Errorf("%w: %s to %s: %v", ErrPush, name, r.Remote, err)
	}
	return nil
}

func (r *GitRepo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.Path}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w, detail: %s", args[0], err, detail)
	}
	return stdout.String(), nil
}
