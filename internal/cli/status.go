// Package cli — status.go implements the "redeploy status" command.
//
// Status queries the Docker daemon for the compose project's containers
// (including stopped ones) and reports each container plus an aggregate
// project state. It is a read-only view — deploys never consult it.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/redeploy/internal/docker"
	"github.com/mmr-tortoise/redeploy/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the project's containers and aggregate state",
		Long: `List the compose project's containers with their service names and
states, and the project's aggregate state (running, degraded, stopped,
or absent).

Examples:
  redeploy status
  redeploy status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	project := cfg.ProjectName
	if project == "" {
		project = deriveProjectName(dir)
	}

	cli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	Log().Debug("connected to Docker daemon", "project", project)

	containers, err := docker.ListProjectContainers(ctx, cli, project)
	if err != nil {
		return err
	}

	state := docker.ProjectStateOf(containers)
	printStatus(project, state, containers)
	return nil
}

// deriveProjectName mimics compose's default project naming: the
// project directory's base name, lowercased, with characters outside
// [a-z0-9_-] dropped.
func deriveProjectName(dir string) string {
	name := strings.ToLower(filepath.Base(dir))

	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// printStatus outputs the project status in text or JSON format.
func printStatus(project string, state model.ProjectState, containers []model.ContainerInfo) {
	if IsJSONOutput() {
		printStatusJSON(project, state, containers)
		return
	}

	fmt.Printf("Project %q: %s\n", project, state)

	if len(containers) == 0 {
		fmt.Println("  (no containers)")
		return
	}

	for _, c := range containers {
		service := c.ServiceName
		if service == "" {
			service = "-"
		}
		fmt.Printf("  %-30s %-12s %s\n", c.ContainerName, service, c.State)
	}
}

// printStatusJSON outputs the status as structured JSON. The containers
// key is always an array, never null, for easier machine consumption.
func printStatusJSON(project string, state model.ProjectState, containers []model.ContainerInfo) {
	type containerJSON struct {
		Name    string `json:"name"`
		Service string `json:"service,omitempty"`
		State   string `json:"state"`
	}

	type resultJSON struct {
		Project    string          `json:"project"`
		State      string          `json:"state"`
		Containers []containerJSON `json:"containers"`
	}

	result := resultJSON{
		Project:    project,
		State:      state.String(),
		Containers: make([]containerJSON, 0, len(containers)),
	}

	for _, c := range containers {
		result.Containers = append(result.Containers, containerJSON{
			Name:    c.ContainerName,
			Service: c.ServiceName,
			State:   c.State,
		})
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}
