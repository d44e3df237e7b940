// Package cli — down.go implements the "redeploy down" command,
// the container-teardown stage of the pipeline on its own.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/redeploy/internal/docker"
)

// downFlags holds the flag values for the down command.
type downFlags struct {
	volumes bool // --volumes: also remove named and anonymous volumes
}

// NewDownCommand creates the "down" cobra command.
func NewDownCommand() *cobra.Command {
	flags := &downFlags{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the project's containers",
		Long: `Stop and remove the compose project's containers and networks.
Running down against an already-stopped or absent project is harmless.

Examples:
  redeploy down
  redeploy down --volumes`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDown(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.volumes, "volumes", false, "Also remove named and anonymous volumes")

	return cmd
}

func runDown(ctx context.Context, flags *downFlags) error {
	orch, err := newCompose()
	if err != nil {
		return err
	}

	Log().Debug("compose down", "file", orch.File, "volumes", flags.volumes)
	if err := orch.Down(ctx, flags.volumes); err != nil {
		return err
	}

	fmt.Println("Containers stopped and removed.")
	return nil
}

// newCompose builds the compose driver from the loaded configuration.
// Shared by the down, up, and deploy-adjacent commands so every one of
// them references the identical resolved compose file.
func newCompose() (docker.Compose, error) {
	dir, cfg, err := loadConfig()
	if err != nil {
		return docker.Compose{}, err
	}

	composeFile, err := cfg.ResolveComposeFile(dir)
	if err != nil {
		return docker.Compose{}, err
	}

	return docker.Compose{
		Dir:         dir,
		File:        composeFile,
		ProjectName: cfg.ProjectName,
	}, nil
}
