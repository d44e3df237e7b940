// Package deploy implements the deploy pipeline: pull the latest source,
// tear the compose project down, and rebuild and start it detached.
//
// The pipeline talks to git and docker through small interfaces so tests
// can substitute recording fakes and assert the invocation order without
// touching either tool. Production wiring lives in internal/cli, which
// passes in git.Syncer and docker.Compose.
package deploy
