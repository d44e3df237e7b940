// Package compose handles parsing and validation of the compose
// specification file the deploy pipeline drives.
//
// Parsing goes through github.com/compose-spec/compose-go, the reference
// implementation of the compose specification, so anything docker compose
// itself would reject is caught before containers are torn down. The
// deploy preflight and the `redeploy validate` command are the two
// consumers.
package compose
