// Package git provides the source synchronization layer for the
// redeploy CLI.
//
// Repository discovery and HEAD inspection go through go-git, which can
// open a repository from any directory inside the working tree without
// spawning a process. Mutating operations (pull) shell out to the git CLI
// for full compatibility with the user's git configuration, credential
// helpers, and merge drivers — the same trade-off the rest of the tool
// makes for docker compose.
//
// All errors from git commands are wrapped in model.CLIError with
// ExitGitError to enable proper CLI exit code handling.
package git
