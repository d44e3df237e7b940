package docker

// Compose label constants. docker compose stamps these labels on every
// container it creates; redeploy reads them to attribute containers to
// the deployed project without keeping any state of its own.
const (
	// LabelComposeProject carries the compose project name.
	LabelComposeProject = "com.docker.compose.project"

	// LabelComposeService carries the compose service name the container
	// was created from.
	LabelComposeService = "com.docker.compose.service"

	// LabelComposeConfigFiles carries the compose file path(s) the
	// project was started with, comma-separated.
	LabelComposeConfigFiles = "com.docker.compose.project.config_files"
)

// ProjectOf returns the compose project name a container belongs to,
// or "" if the container was not created by docker compose.
func ProjectOf(labels map[string]string) string {
	return labels[LabelComposeProject]
}

// ServiceOf returns the compose service name a container was created
// from, or "" for non-compose containers.
func ServiceOf(labels map[string]string) string {
	return labels[LabelComposeService]
}
