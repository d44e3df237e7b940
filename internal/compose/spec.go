package compose

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// Spec is the validated view of a compose specification file that the
// CLI reports on. It deliberately exposes only what the deploy wrapper
// needs — service names and the source path — rather than the full
// compose project tree.
type Spec struct {
	// Path is the compose file the spec was loaded from.
	Path string

	// Services lists the declared service names, sorted.
	Services []string
}

// Load reads and validates the compose file at path.
//
// A file that compose-go cannot parse, or that declares no services,
// returns a model.CLIError with ExitComposeInvalid. The projectName is
// only used for interpolation defaults; it does not have to match the
// running project.
func Load(ctx context.Context, path, projectName string) (*Spec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitComposeInvalid,
			fmt.Sprintf("failed to read compose file %s", path), err)
	}

	project, err := loadProject(ctx, path, content, projectName)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitComposeInvalid,
			fmt.Sprintf("invalid compose file %s", path), err)
	}

	if len(project.Services) == 0 {
		return nil, model.NewCLIError(model.ExitComposeInvalid,
			fmt.Sprintf("compose file %s declares no services", path))
	}

	services := make([]string, 0, len(project.Services))
	for name := range project.Services {
		services = append(services, name)
	}
	sort.Strings(services)

	return &Spec{Path: path, Services: services}, nil
}

// loadProject runs the compose-go loader over a single in-memory config
// file.
//
// Normalization and extends resolution are skipped: both want to touch
// the filesystem beyond the one file we were given, and the deploy
// wrapper only needs the service table, not a fully resolved project.
func loadProject(ctx context.Context, path string, content []byte, projectName string) (*types.Project, error) {
	if strings.TrimSpace(string(content)) == "" {
		return nil, fmt.Errorf("file is empty")
	}

	if projectName == "" {
		projectName = "redeploy"
	}

	return loader.LoadWithContext(ctx, types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Filename: path,
				Content:  content,
			},
		},
		Environment: types.NewMapping(os.Environ()),
	}, func(opts *loader.Options) {
		opts.SetProjectName(projectName, false)
		opts.SkipValidation = false
		opts.SkipInterpolation = false
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
}
