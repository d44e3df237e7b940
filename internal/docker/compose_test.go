package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestComposeArgs pins the exact docker compose invocations. The deploy
// contract is literal — down and up must both reference the same -f path,
// and up must rebuild and detach — so the argument lists are asserted
// verbatim.
func TestComposeArgs(t *testing.T) {
	c := Compose{Dir: "/srv/app", File: "/srv/app/docker-compose.yml"}

	assert.Equal(t,
		[]string{"compose", "-f", "/srv/app/docker-compose.yml", "down"},
		c.downArgs(false))

	assert.Equal(t,
		[]string{"compose", "-f", "/srv/app/docker-compose.yml", "down", "-v"},
		c.downArgs(true))

	assert.Equal(t,
		[]string{"compose", "-f", "/srv/app/docker-compose.yml", "up", "--build", "-d"},
		c.upArgs(true))

	assert.Equal(t,
		[]string{"compose", "-f", "/srv/app/docker-compose.yml", "up", "-d"},
		c.upArgs(false))
}

// TestComposeArgsSameFile verifies that teardown and rebuild share the
// identical file argument for any configured path.
func TestComposeArgsSameFile(t *testing.T) {
	c := Compose{Dir: "/tmp", File: "compose.override.yaml"}

	down := c.downArgs(false)
	up := c.upArgs(true)

	assert.Equal(t, down[1:3], up[1:3], "down and up must use the same -f file")
}

func TestLabelHelpers(t *testing.T) {
	labels := map[string]string{
		LabelComposeProject: "myapp",
		LabelComposeService: "db",
	}

	assert.Equal(t, "myapp", ProjectOf(labels))
	assert.Equal(t, "db", ServiceOf(labels))
	assert.Empty(t, ProjectOf(nil))
	assert.Empty(t, ServiceOf(map[string]string{}))
}
