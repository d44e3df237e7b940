// container.go implements the read side of container state for the
// redeploy CLI: listing the compose project's containers and deriving
// an aggregate project state from them.
//
// All attribution is label-based. docker compose stamps the
// com.docker.compose.project label on every container it creates, which
// lets us filter the project's containers server-side without tracking
// anything locally.
package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// ListProjectContainers queries the Docker daemon for all containers that
// belong to the named compose project, including stopped ones.
//
// Stopped containers matter: after a failed deploy the interesting
// containers are usually the exited ones, and `redeploy status` must show
// them rather than silently reporting an empty project.
func ListProjectContainers(ctx context.Context, cli *Client, project string) ([]model.ContainerInfo, error) {
	// Build a Docker API filter that matches only the project's
	// containers. Docker performs the filtering server-side, which is
	// cheaper than listing everything and filtering in Go.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelComposeProject+"="+project),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerUnavailable,
			"failed to list Docker containers",
			err,
		)
	}

	// Convert Docker API structs to our domain model. This decouples the
	// rest of the application from the Docker SDK types.
	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}

	return result, nil
}

// containerToInfo converts a Docker API Container struct to our domain
// model ContainerInfo. This is a pure mapping function with no side
// effects.
//
// The Docker API returns container names with a leading "/" prefix
// (e.g. "/myapp-web-1"), which we strip for cleaner CLI output. The
// State field is a short string like "running", "exited", or "created".
func containerToInfo(c types.Container) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		// The leading "/" is an artifact of the API, not meaningful
		// to users.
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		ServiceName:   ServiceOf(c.Labels),
		State:         c.State,
		Labels:        c.Labels,
	}
}

// ProjectStateOf derives the aggregate lifecycle state of a compose
// project from its containers' states:
//
//	no containers            → absent
//	all running              → running
//	some running, some not   → degraded
//	none running             → stopped
func ProjectStateOf(containers []model.ContainerInfo) model.ProjectState {
	if len(containers) == 0 {
		return model.StateAbsent
	}

	running := 0
	for _, c := range containers {
		if c.State == "running" {
			running++
		}
	}

	switch running {
	case len(containers):
		return model.StateRunning
	case 0:
		return model.StateStopped
	default:
		return model.StateDegraded
	}
}
