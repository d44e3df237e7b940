package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUpstreamRepo creates a temporary git repository with a single commit
// on a "main" branch. It serves as the remote that clones pull from.
//
// The function uses t.TempDir() which automatically cleans up after the
// test. It also configures a local user.name and user.email so that
// `git commit` works in CI environments where global git config may not
// be set.
func setupUpstreamRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	// -b main pins the initial branch name regardless of the host's
	// init.defaultBranch setting.
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	commitFile(t, dir, "README.md", "# upstream\n", "initial commit")

	return dir
}

// cloneRepo clones the upstream repository into a fresh temp directory and
// configures commit identity in the clone as well.
func cloneRepo(t *testing.T, upstream string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "clone")
	cmd := exec.Command("git", "clone", upstream, dir)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git clone failed: %s", string(output))

	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	return dir
}

// commitFile writes a file and commits it in the given repository.
func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err, "failed to write %s", name)

	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", message)
}

// runTestGit is a test helper that runs a git command in the specified
// directory and fails the test immediately on a non-zero exit status.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// TestNewSyncer verifies repository discovery from the repo root and from
// a nested directory, and rejection of directories outside any repository.
func TestNewSyncer(t *testing.T) {
	repo := setupUpstreamRepo(t)

	_, err := NewSyncer(repo)
	assert.NoError(t, err, "NewSyncer should succeed at the repo root")

	// Discovery walks up from nested directories, like git rev-parse does.
	nested := filepath.Join(repo, "sub", "dir")
	require.NoError(t, os.MkdirAll(nested, 0755))
	_, err = NewSyncer(nested)
	assert.NoError(t, err, "NewSyncer should succeed in a nested directory")
}

func TestNewSyncerOutsideRepo(t *testing.T) {
	_, err := NewSyncer(t.TempDir())
	require.Error(t, err, "NewSyncer should fail outside a repository")
	assert.Contains(t, err.Error(), "not inside a git repository")
}

// TestPullFastForward verifies that Pull integrates an upstream commit
// into the clone's working tree.
func TestPullFastForward(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	clone := cloneRepo(t, upstream)

	// Advance the upstream after cloning so the clone is behind.
	commitFile(t, upstream, "service.py", "print('hi')\n", "add service")

	s, err := NewSyncer(clone)
	require.NoError(t, err)

	err = s.Pull(context.Background(), "origin", "main")
	require.NoError(t, err, "Pull should fast-forward the clone")

	// The new upstream file must now exist in the clone's working tree.
	_, statErr := os.Stat(filepath.Join(clone, "service.py"))
	assert.NoError(t, statErr, "pulled file should exist in the clone")

	// Clone and upstream HEAD must agree after the pull.
	upstreamHead := setupSyncer(t, upstream).mustHead(t)
	cloneHead := s.mustHead(t)
	assert.Equal(t, upstreamHead.Hash, cloneHead.Hash)
}

// TestPullUpToDate verifies that pulling with nothing to integrate is not
// an error — rerunning a deploy must be harmless on the git side.
func TestPullUpToDate(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	clone := cloneRepo(t, upstream)

	s, err := NewSyncer(clone)
	require.NoError(t, err)

	require.NoError(t, s.Pull(context.Background(), "origin", "main"))
	require.NoError(t, s.Pull(context.Background(), "origin", "main"), "second pull should be a no-op")
}

// TestPullUnknownRemote verifies that the git CLI's stderr surfaces in the
// returned error when the remote does not exist.
func TestPullUnknownRemote(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	clone := cloneRepo(t, upstream)

	s, err := NewSyncer(clone)
	require.NoError(t, err)

	err = s.Pull(context.Background(), "nosuchremote", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git pull nosuchremote main failed")
}

func TestHead(t *testing.T) {
	repo := setupUpstreamRepo(t)

	s, err := NewSyncer(repo)
	require.NoError(t, err)

	head, err := s.Head()
	require.NoError(t, err)
	assert.Equal(t, "main", head.Branch)
	assert.Len(t, head.Hash, 40, "HEAD hash should be a full SHA-1")
	assert.Equal(t, head.Hash[:12], head.ShortHash())
}

func TestIsClean(t *testing.T) {
	repo := setupUpstreamRepo(t)

	s, err := NewSyncer(repo)
	require.NoError(t, err)

	clean, err := s.IsClean(context.Background())
	require.NoError(t, err)
	assert.True(t, clean, "fresh repo should be clean")

	// An untracked file makes the tree dirty in porcelain output.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("x"), 0644))

	clean, err = s.IsClean(context.Background())
	require.NoError(t, err)
	assert.False(t, clean, "untracked file should make the tree dirty")
}

// setupSyncer wraps NewSyncer with a require for brevity in tests that
// need a second syncer.
func setupSyncer(t *testing.T, dir string) *Syncer {
	t.Helper()
	s, err := NewSyncer(dir)
	require.NoError(t, err)
	return s
}

// mustHead is a test convenience over Head.
func (s *Syncer) mustHead(t *testing.T) HeadInfo {
	t.Helper()
	head, err := s.Head()
	require.NoError(t, err)
	return head
}
