package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/thiagokokada/gitprompt-go/internal/buildinfo"
	"github.com/thiagokokada/gitprompt-go/internal/config"
	"github.com/thiagokokada/gitprompt-go/internal/git"
	"github.com/thiagokokada/gitprompt-go/internal/prompt"
	"github.com/thiagokokada/gitprompt-go/internal/watch"
)

const watchDebounceDelay = 350 * time.Millisecond

func Run() error {
	return run(os.Args[1:], os.Stdout)
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gitprompt-go", flag.ContinueOnError)
	repoPath := fs.String("C", ".", "path of the repository to report on")
	configPath := fs.String("config", defaultConfigPath(), "configuration file")
	watchMode := fs.Bool("watch", false, "keep running and re-print the status when the repository changes")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintln(out, buildinfo.Version())
		return nil
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *verbose || cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	opts := prompt.Options{
		ShowRemoteURL:    cfg.ShowRemoteURL,
		ShowStashMessage: cfg.ShowStashMessage,
	}

	if !*watchMode && !cfg.Watch {
		emit(out, *repoPath, opts)
		return nil
	}
	w, err := watch.New(*repoPath, watchDebounceDelay, func() {
		emit(out, *repoPath, opts)
	})
	if err != nil {
		return err
	}
	defer w.Close()
	emit(out, *repoPath, opts)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

// emit prints one status line. Failures never propagate: a broken repository
// must degrade to an empty prompt segment, not a broken shell.
func emit(out io.Writer, repoPath string, opts prompt.Options) {
	line, err := statusLine(repoPath, opts)
	if err != nil {
		slog.Error("status unavailable", slog.String("repo", repoPath), slog.Any("error", err))
		return
	}
	if line != "" {
		fmt.Fprintln(out, line)
	}
}

func statusLine(repoPath string, opts prompt.Options) (string, error) {
	svc, err := git.Open(repoPath)
	if err != nil {
		if git.IsNotRepository(err) {
			return "", nil
		}
		return "", err
	}
	status, err := svc.Status()
	if err != nil {
		if errors.Is(err, git.ErrNoHead) {
			return "", nil
		}
		return "", err
	}
	return prompt.Render(status, opts), nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gitprompt", "config.yaml")
}
