// Package cli — pull.go implements the "redeploy pull" command,
// the source-update stage of the pipeline on its own.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/redeploy/internal/git"
)

// NewPullCommand creates the "pull" cobra command.
func NewPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull the latest code from the configured remote and branch",
		Long: `Fetch and integrate the latest changes from the configured remote and
branch into the working tree, without touching any containers.

Examples:
  redeploy pull
  redeploy pull --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd.Context())
		},
	}
}

func runPull(ctx context.Context) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	syncer, err := git.NewSyncer(dir)
	if err != nil {
		return err
	}

	Log().Debug("pulling", "remote", cfg.Remote, "branch", cfg.Branch)
	if err := syncer.Pull(ctx, cfg.Remote, cfg.Branch); err != nil {
		return err
	}

	head, err := syncer.Head()
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		printPullJSON(cfg.Remote, head)
	} else {
		fmt.Printf("Pulled %s/%s, now at %s\n", cfg.Remote, head.Branch, head.ShortHash())
	}
	return nil
}

func printPullJSON(remote string, head git.HeadInfo) {
	result := map[string]string{
		"remote": remote,
		"branch": head.Branch,
		"commit": head.Hash,
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}
