// Package sync keeps the data directory in a git repository and exchanges it with a remote.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrNotRepo is returned when the data directory has not been initialized.
var ErrNotRepo = errors.New("not a git repository, run 'daybook init' first")

const gitignore = "logs/\n*.tmp\n"

type repo struct {
	ctx context.Context
	dir string
	out io.Writer
}

func (r repo) cmd(args ...string) *exec.Cmd {
	return exec.CommandContext(r.ctx, "git", append([]string{"-C", r.dir}, args...)...)
}

// run executes git with its output streamed to out.
func (r repo) run(args ...string) error {
	c := r.cmd(args...)
	c.Stdout = r.out
	c.Stderr = r.out
	return c.Run()
}

// quiet executes git and reports only success.
func (r repo) quiet(args ...string) bool {
	return r.cmd(args...).Run() == nil
}

// IsRepo reports whether dir holds a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// InitRepo makes dir a git repository, if it is not one yet, and points origin at remote
// when remote is set.
func InitRepo(ctx context.Context, dir, remote string, out io.Writer) error {
	r := repo{ctx: ctx, dir: dir, out: out}
	if !IsRepo(dir) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := r.run("init", "--quiet"); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		fmt.Fprintf(out, "Initialized %s\n", dir)
	}
	ignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignore); os.IsNotExist(err) {
		if err := os.WriteFile(ignore, []byte(gitignore), 0o644); err != nil {
			return err
		}
	}

	if remote == "" {
		fmt.Fprintln(out, "No remote specified. Use --remote <url> to set one.")
		return nil
	}
	r.quiet("remote", "remove", "origin")
	if err := r.run("remote", "add", "origin", remote); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(out, "Remote set to: %s\n", remote)
	return nil
}

// SyncRepo commits local changes, pulls with rebase (falling back to merge) and pushes.
// Without a remote it only commits. The first push sets the upstream.
func SyncRepo(ctx context.Context, dir string, out io.Writer) error {
	if !IsRepo(dir) {
		return ErrNotRepo
	}
	r := repo{ctx: ctx, dir: dir, out: out}

	fmt.Fprintln(out, "Staging changes...")
	if err := r.run("add", "-A"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	if !r.quiet("diff", "--cached", "--quiet") {
		msg := "sync " + time.Now().Format("2006-01-02 15:04:05")
		if err := r.run("commit", "--quiet", "-m", msg); err != nil {
			return fmt.Errorf("git commit: %w", err)
		}
	}

	if !r.quiet("remote", "get-url", "origin") {
		fmt.Fprintln(out, "No remote configured, changes committed locally.")
		return nil
	}

	if r.quiet("rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}") {
		fmt.Fprintln(out, "Pulling...")
		if err := r.run("pull", "--rebase"); err != nil {
			fmt.Fprintln(out, "Rebase failed, trying merge...")
			r.quiet("rebase", "--abort")
			if err := r.run("pull", "--no-rebase"); err != nil {
				r.quiet("merge", "--abort")
				return errors.New("sync failed: could not rebase or merge, resolve conflicts manually")
			}
		}
		fmt.Fprintln(out, "Pushing...")
		if err := r.run("push"); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
	} else {
		fmt.Fprintln(out, "Pushing...")
		if err := r.run("push", "--set-upstream", "origin", "HEAD"); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
	}

	fmt.Fprintln(out, "Sync complete.")
	return nil
}
