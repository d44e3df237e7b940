// Package docker provides Docker Engine API wrappers and docker compose
// invocations for the redeploy CLI.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows)
//   - Compose project discovery via the com.docker.compose.* labels that
//     docker compose stamps on every container it creates
//   - Compose lifecycle operations: down, up --build -d, pull
//
// Compose lifecycle always shells out to the docker CLI (plugin-form
// `docker compose`), because compose semantics — file merging, build
// orchestration, dependency ordering — live in the CLI, not the Engine
// API. The Engine API client is used for the read side only (status).
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
