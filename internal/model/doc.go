// Package model defines the domain types and value objects for the
// redeploy CLI.
//
// This package contains pure data structures with no external dependencies.
// Deploy runs are transient — the tool holds no state of its own between
// invocations; everything it reports is reconstructed from the git working
// tree and the Docker daemon at runtime.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
