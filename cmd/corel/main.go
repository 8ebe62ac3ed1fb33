package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/go-github/v60/github"
	"github.com/spf13/cobra"

	"github.com/corel/pkg/config"
	"github.com/corel/pkg/release"
	"github.com/corel/pkg/reporter"
	"github.com/corel/pkg/vcs"
)

var (
	version = "dev"
	commit  = "none"
)

const (
	exitOK              = 0
	exitFailure         = 1
	exitParseArgs       = 5
	exitNoRepository    = 10
	exitTagNotResolved  = 30
	exitTagNotCreated   = 40
	exitTagNotPushed    = 41
	exitNoTagNoAutoInit = 50
	exitInvalidInitTag  = 60
	exitNoCommits       = 70
)

// errUsage marks command line errors so they map to exitParseArgs.
var errUsage = errors.New("invalid arguments")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		reportError(&reporter.Log{Out: os.Stdout, Err: os.Stderr}, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// reportError prints the error that ended the run.
func reportError(log *reporter.Log, err error) {
	if errors.Is(err, release.ErrNoValidTag) {
		log.Errorf("No tags have been created yet and --auto-init-tag was not provided.")
		return
	}
	log.Errorf("%v", err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "corel",
		Short: "Tag the next semantic version from conventional commits",
		Long: `Finds the latest version tag, classifies every commit since it by its conventional-commit prefix
and tags HEAD with the next version. Breaking changes bump major (minor below v1.0.0), feat and
refactor bump minor, everything else bumps patch.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          run,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	pf := rootCmd.PersistentFlags()
	pf.BoolP("quiet", "q", false, "Only show important output")
	pf.Bool("debug", false, "Show debug output")
	pf.String("repository-path", ".", "Path to the git repository")
	pf.String("config", "", "Path to config file (default <repository-path>/"+config.DefaultFile+")")
	pf.String("output", "text", "Output format: text | json")
	pf.String("backend", "git", "Repository backend: git | github")
	pf.String("github-repo", os.Getenv("GITHUB_REPOSITORY"), "GitHub repo (owner/repo) for the github backend")
	pf.String("github-token", os.Getenv("GITHUB_TOKEN"), "GitHub token for the github backend")
	pf.String("ref", "", "Branch or commit treated as head by the github backend (default branch if empty)")

	f := rootCmd.Flags()
	f.Bool("print-version", false, "Only print the next version of the repository")
	f.Bool("dry-run", false, "Do not make any changes to the repository")
	f.Bool("auto-init-tag", false, "Create the initial tag by analyzing all commits starting from --initial-version")
	f.String("initial-version", release.DefaultInitialVersion, "The version to start from when no tag exists")
	f.Bool("no-push", false, "Only create tags locally and do not push them to the remote")
	f.String("remote", "origin", "Remote to push tags to")

	rootCmd.AddCommand(newTagsCmd())
	rootCmd.AddCommand(newClassifyCmd())
	return rootCmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := &reporter.Log{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr(), Quiet: cfg.Quiet || cfg.PrintVersion, Debug: cfg.Debug}

	backend, err := openBackend(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		log.Infof("dry-run mode: no tags will be created")
	}
	engine := release.New(backend, cfg.Options(), log)
	res, err := engine.Run(cmd.Context())
	if err != nil {
		return err
	}
	return reporter.New(cfg.Output).Report(cmd.OutOrStdout(), res)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	if path == "" {
		repoPath, _ := flags.GetString("repository-path")
		path = filepath.Join(repoPath, config.DefaultFile)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not load config file: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	cfg = config.MergeFlags(cfg, flags)

	switch cfg.Output {
	case "text", "json":
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", errUsage, cfg.Output)
	}
	return cfg, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (vcs.Backend, error) {
	switch cfg.Backend {
	case "git":
		return vcs.OpenGit(ctx, cfg.RepositoryPath, cfg.Remote)
	case "github":
		if cfg.GitHub.Repo == "" {
			return nil, fmt.Errorf("%w: --github-repo is required for the github backend", errUsage)
		}
		client := github.NewClient(nil)
		if cfg.GitHub.Token != "" {
			client = client.WithAuthToken(cfg.GitHub.Token)
		}
		return vcs.OpenGitHub(ctx, client, cfg.GitHub.Repo, cfg.GitHub.Ref)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", errUsage, cfg.Backend)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitParseArgs
	case errors.Is(err, vcs.ErrNotRepository):
		return exitNoRepository
	case errors.Is(err, release.ErrNoCommits):
		return exitNoCommits
	case errors.Is(err, release.ErrNoValidTag):
		return exitNoTagNoAutoInit
	case errors.Is(err, release.ErrInvalidInitialVersion):
		return exitInvalidInitTag
	case errors.Is(err, release.ErrRevisionNotResolvable):
		return exitTagNotResolved
	case errors.Is(err, vcs.ErrTagCreation):
		return exitTagNotCreated
	case errors.Is(err, vcs.ErrPush):
		return exitTagNotPushed
	default:
		return exitFailure
	}
}
