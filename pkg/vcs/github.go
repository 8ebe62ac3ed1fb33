package vcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v60/github"
)

// GitHubRepo implements Backend against the GitHub REST API. Tags are created
// as refs directly on GitHub, so there is nothing left to push.
type GitHubRepo struct {
	client *github.Client
	owner  string
	repo   string
	ref    string
}

// NewGitHubRepo returns a backend for owner/repo. ref is the branch or commit
// treated as head; empty means the repository's default branch.
func NewGitHubRepo(client *github.Client, owner, repo, ref string) *GitHubRepo {
	return &GitHubRepo{
		client: client,
		owner:  owner,
		repo:   repo,
		ref:    ref,
	}
}

// OpenGitHub checks that the repository exists and resolves the default
// branch when ref is empty.
func OpenGitHub(ctx context.Context, client *github.Client, slug, ref string) (*GitHubRepo, error) {
	owner, repo, err := ParseGitHubRepo(slug)
	if err != nil {
		return nil, err
	}
	info, _, err := client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		if statusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: github.com/%s/%s", ErrNotRepository, owner, repo)
		}
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	if ref == "" || ref == "HEAD" {
		ref = info.GetDefaultBranch()
	}
	return NewGitHubRepo(client, owner, repo, ref), nil
}

func (g *GitHubRepo) ListTagNames(ctx context.Context) ([]string, error) {
	var names []string
	opts := &github.ListOptions{PerPage: 100}

	for {
		tags, resp, err := g.client.Repositories.ListTags(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags for %s/%s: %w", g.owner, g.repo, err)
		}
		for _, t := range tags {
			names = append(names, t.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

func (g *GitHubRepo) HeadHasCommits(ctx context.Context) (bool, error) {
	opts := &github.CommitsListOptions{
		SHA:         g.ref,
		ListOptions: github.ListOptions{PerPage: 1},
	}
	commits, _, err := g.client.Repositories.ListCommits(ctx, g.owner, g.repo, opts)
	if err != nil {
		// GitHub answers 409 Conflict for a repository without commits.
		if statusCode(err) == http.StatusConflict {
			return false, nil
		}
		return false, fmt.Errorf("list commits for %s/%s: %w", g.owner, g.repo, err)
	}
	return len(commits) > 0, nil
}

func (g *GitHubRepo) WalkCommits(ctx context.Context, exclude string, limit int) ([]Commit, error) {
	var commits []Commit
	var err error
	if exclude != "" {
		commits, err = g.compare(ctx, exclude)
	} else {
		commits, err = g.history(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(commits) > limit {
		commits = commits[len(commits)-limit:]
	}
	return commits, nil
}

// compare lists base..ref. The compare endpoint already returns commits
// oldest first.
func (g *GitHubRepo) compare(ctx context.Context, base string) ([]Commit, error) {
	var commits []Commit
	opts := &github.ListOptions{PerPage: 100}

	for {
		cmp, resp, err := g.client.Repositories.CompareCommits(ctx, g.owner, g.repo, base, g.ref, opts)
		if err != nil {
			return nil, fmt.Errorf("compare %s...%s in %s/%s: %w", base, g.ref, g.owner, g.repo, err)
		}
		for _, c := range cmp.Commits {
			commits = append(commits, fromRepositoryCommit(c))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return commits, nil
}

// history lists every commit reachable from ref and reverses the newest-first
// API order.
func (g *GitHubRepo) history(ctx context.Context, limit int) ([]Commit, error) {
	var commits []Commit
	opts := &github.CommitsListOptions{
		SHA:         g.ref,
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := g.client.Repositories.ListCommits(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits for %s/%s: %w", g.owner, g.repo, err)
		}
		for _, c := range page {
			commits = append(commits, fromRepositoryCommit(c))
		}
		if resp.NextPage == 0 || (limit > 0 && len(commits) >= limit) {
			break
		}
		opts.Page = resp.NextPage
	}

	if limit > 0 && len(commits) > limit {
		commits = commits[:limit]
	}
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}

func fromRepositoryCommit(c *github.RepositoryCommit) Commit {
	return Commit{
		ID:      c.GetSHA(),
		Message: strings.TrimSpace(c.GetCommit().GetMessage()),
	}
}

func (g *GitHubRepo) ResolveRevision(ctx context.Context, name string) (string, error) {
	if name == "" || name == "HEAD" {
		name = g.ref
	}
	sha, _, err := g.client.Repositories.GetCommitSHA1(ctx, g.owner, g.repo, name, "")
	if err != nil {
		switch statusCode(err) {
		case http.StatusNotFound, http.StatusUnprocessableEntity:
			return "", fmt.Errorf("%w: %s", ErrRevisionNotFound, name)
		}
		return "", fmt.Errorf("resolve %s in %s/%s: %w", name, g.owner, g.repo, err)
	}
	return sha, nil
}

func (g *GitHubRepo) CreateTag(ctx context.Context, name, at string) error {
	sha, err := g.ResolveRevision(ctx, at)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTagCreation, name, err)
	}
	ref := &github.Reference{
		Ref:    github.String("refs/tags/" + name),
		Object: &github.GitObject{SHA: github.String(sha)},
	}
	if _, _, err := g.client.Git.CreateRef(ctx, g.owner, g.repo, ref); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrTagCreation, name, err)
	}
	return nil
}

// PushTag is a no-op: CreateTag already wrote the ref on GitHub.
func (g *GitHubRepo) PushTag(ctx context.Context, name string) error {
	return nil
}

func statusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

func ParseGitHubRepo(repoURL string) (owner, repo string, err error) {
	repoURL = strings.TrimPrefix(repoURL, "https://")
	repoURL = strings.TrimPrefix(repoURL, "http://")
	repoURL = strings.TrimPrefix(repoURL, "github.com/")
	repoURL = strings.TrimSuffix(repoURL, ".git")
	repoURL = strings.TrimSuffix(repoURL, "/")

	parts := strings.SplitN(repoURL, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse GitHub repo from %q", repoURL)
	}
	return parts[0], parts[1], nil
}
