// compose.go implements the docker compose invocations for the redeploy
// CLI. Both lifecycle steps of a deploy — teardown and rebuild — run
// through here, against the same resolved compose file.
package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// Compose drives docker compose for one project: a fixed project
// directory, one compose file, and an optional explicit project name.
//
// The file path is resolved once by the caller (the config layer) and
// never re-derived here, so teardown and rebuild are guaranteed to
// reference the same specification file.
type Compose struct {
	// Dir is the working directory compose runs in. Relative paths in
	// the YAML resolve against it.
	Dir string

	// File is the compose specification file path passed via -f.
	File string

	// ProjectName, when non-empty, is exported as COMPOSE_PROJECT_NAME.
	// When empty, compose derives the project name from Dir.
	ProjectName string
}

// Down stops and removes the project's containers and networks by running
// `docker compose -f <file> down`. When removeVolumes is true, -v is
// added to also remove named and anonymous volumes.
//
// Down does not check whether anything was running first — running it
// against an absent project is a no-op for compose and for us.
func (c Compose) Down(ctx context.Context, removeVolumes bool) error {
	return c.run(ctx, c.downArgs(removeVolumes))
}

// downArgs builds the argument list for Down. Split out from Down so the
// exact invocation can be asserted in tests without a Docker daemon.
func (c Compose) downArgs(removeVolumes bool) []string {
	args := c.baseArgs()
	args = append(args, "down")
	if removeVolumes {
		args = append(args, "-v")
	}
	return args
}

// Up rebuilds images and starts the project's containers in the
// background by running `docker compose -f <file> up --build -d`.
// When build is false the --build flag is omitted and existing images
// are reused.
//
// The -d flag runs containers detached so the CLI doesn't block; startup
// success of the services themselves is not verified.
func (c Compose) Up(ctx context.Context, build bool) error {
	return c.run(ctx, c.upArgs(build))
}

// upArgs builds the argument list for Up.
func (c Compose) upArgs(build bool) []string {
	args := c.baseArgs()
	args = append(args, "up")
	if build {
		args = append(args, "--build")
	}
	args = append(args, "-d")
	return args
}

// baseArgs constructs the common argument prefix for compose commands.
// "compose" is the subcommand for plugin-style invocation; the legacy
// standalone docker-compose binary is not used.
func (c Compose) baseArgs() []string {
	return []string{"compose", "-f", c.File}
}

// run executes a docker compose command as a child process in the
// project directory, inheriting the current environment plus
// COMPOSE_PROJECT_NAME when configured.
//
// Output is streamed to the CLI's own stdout/stderr so the operator sees
// compose's build and startup progress live, exactly as the wrapped
// shell script did. On failure it returns a CLIError with
// ExitDockerUnavailable, since compose failures most commonly stem from
// Docker daemon issues.
func (c Compose) run(ctx context.Context, args []string) error {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Dir = c.Dir

	// os.Environ() returns a copy, so the append doesn't affect this
	// process's environment.
	cmd.Env = os.Environ()
	if c.ProjectName != "" {
		cmd.Env = append(cmd.Env, "COMPOSE_PROJECT_NAME="+c.ProjectName)
	}

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return model.WrapCLIError(
			model.ExitDockerUnavailable,
			fmt.Sprintf("docker %s failed", strings.Join(args, " ")),
			err,
		)
	}

	return nil
}
