package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDeriveProjectName verifies the compose-style default project name
// derivation from a directory path.
func TestDeriveProjectName(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"/srv/myapp", "myapp"},
		{"/home/deploy/My App", "myapp"},
		{"/srv/app-v2", "app-v2"},
		{"/srv/app_v2", "app_v2"},
		{"/srv/Ünicode-App", "nicode-app"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveProjectName(tt.dir))
		})
	}
}
