package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// HeadInfo describes the working tree's current checkout, reported after
// a pull so the operator can see what was deployed.
type HeadInfo struct {
	// Branch is the short branch name (e.g. "main"), or "HEAD" when the
	// repository is in a detached state.
	Branch string

	// Hash is the full commit hash HEAD points to.
	Hash string
}

// ShortHash returns the abbreviated (12 character) form of the HEAD hash.
func (h HeadInfo) ShortHash() string {
	if len(h.Hash) < 12 {
		return h.Hash
	}
	return h.Hash[:12]
}

// Syncer performs source updates for a single repository working tree.
//
// The zero value is not usable; construct with NewSyncer, which verifies
// that dir actually lives inside a git repository.
type Syncer struct {
	// dir is the directory the syncer operates in. It may be any
	// directory inside the working tree; git -C handles the rest.
	dir string
}

// NewSyncer opens the repository containing dir and returns a Syncer
// bound to it.
//
// Discovery uses go-git's PlainOpenWithOptions with DetectDotGit, which
// walks up parent directories the same way `git rev-parse` does. Returns
// a model.CLIError with ExitGitError if dir is not inside a repository.
func NewSyncer(dir string) (*Syncer, error) {
	_, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGitError,
			fmt.Sprintf("%s is not inside a git repository", dir), err)
	}
	return &Syncer{dir: dir}, nil
}

// Pull fetches and integrates the latest changes from the named remote and
// branch into the working tree by running `git pull <remote> <branch>`.
//
// Merge conflicts, authentication failures, and network errors all surface
// as the git CLI's own stderr text wrapped in a CLIError — the tool adds
// no retry or conflict handling of its own.
func (s *Syncer) Pull(ctx context.Context, remote, branch string) error {
	_, err := s.runGit(ctx, "pull", remote, branch)
	return err
}

// Head returns the branch name and commit hash the working tree currently
// points to, read through go-git without spawning a process.
func (s *Syncer) Head() (HeadInfo, error) {
	repo, err := gogit.PlainOpenWithOptions(s.dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return HeadInfo{}, model.WrapCLIError(model.ExitGitError, "failed to open repository", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return HeadInfo{}, model.WrapCLIError(model.ExitGitError, "failed to resolve HEAD", err)
	}

	info := HeadInfo{Hash: ref.Hash().String(), Branch: "HEAD"}
	if ref.Name().IsBranch() {
		// Name() is the full ref ("refs/heads/main"); Short() trims it.
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// IsClean reports whether the working tree has no uncommitted changes.
//
// It runs `git status --porcelain`, whose output is empty exactly when the
// tree is clean. The deploy pipeline only warns on a dirty tree — pulling
// into one is allowed, matching the wrapped script's behavior.
func (s *Syncer) IsClean(ctx context.Context) (bool, error) {
	output, err := s.runGit(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(output) == "", nil
}

// runGit executes a git command with the given arguments in the syncer's
// directory.
//
// It captures stdout and stderr separately. On success (exit code 0) it
// returns the stdout output. On failure it returns a model.CLIError with
// ExitGitError, including the stderr output in the error message for
// diagnostics.
//
// The directory is passed to git via the -C flag, which causes git to
// change to that directory before doing anything else. This avoids
// changing the process's working directory.
func (s *Syncer) runGit(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", s.dir}, args...)

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}
