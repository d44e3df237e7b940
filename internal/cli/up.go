// Package cli — up.go implements the "redeploy up" command,
// the rebuild-and-start stage of the pipeline on its own.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// upFlags holds the flag values for the up command.
type upFlags struct {
	noBuild bool // --no-build: reuse existing images
}

// NewUpCommand creates the "up" cobra command.
func NewUpCommand() *cobra.Command {
	flags := &upFlags{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Rebuild images and start the project's containers",
		Long: `Rebuild the project's images and start its containers in the background
(docker compose up --build -d). Container startup success is not
verified; use "redeploy status" to inspect the result.

Examples:
  redeploy up
  redeploy up --no-build`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUp(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noBuild, "no-build", false, "Start containers without rebuilding images")

	return cmd
}

func runUp(ctx context.Context, flags *upFlags) error {
	orch, err := newCompose()
	if err != nil {
		return err
	}

	Log().Debug("compose up", "file", orch.File, "build", !flags.noBuild)
	if err := orch.Up(ctx, !flags.noBuild); err != nil {
		return err
	}

	fmt.Println("Containers started.")
	return nil
}
