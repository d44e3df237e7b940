// Package cli — deploy.go implements the "redeploy deploy" command.
//
// Deploy is the primary operation: it runs the full pipeline of pulling
// the latest source, tearing the compose project down, and bringing it
// back up with rebuilt images. Single-step variants live in pull.go,
// down.go, and up.go.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/redeploy/internal/deploy"
	"github.com/mmr-tortoise/redeploy/internal/docker"
	"github.com/mmr-tortoise/redeploy/internal/git"
	"github.com/mmr-tortoise/redeploy/internal/model"
)

// deployFlags holds the flag values for the deploy command.
type deployFlags struct {
	noPull   bool // --no-pull: skip the source update
	noBuild  bool // --no-build: start without rebuilding images
	failFast bool // --fail-fast: stop at the first failed step
}

// NewDeployCommand creates the "deploy" cobra command.
func NewDeployCommand() *cobra.Command {
	flags := &deployFlags{}

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Pull the latest code, then rebuild and restart the containers",
		Long: `Run the full deployment pipeline:

  1. git pull from the configured remote and branch
  2. docker compose down
  3. docker compose up --build -d

By default every step runs even if an earlier one failed, matching a
fire-and-forget deploy script; failures are collected and reported at
the end. Use --fail-fast to stop at the first failing step instead.

Examples:
  redeploy deploy
  redeploy deploy --no-pull
  redeploy deploy --fail-fast --verbose`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noPull, "no-pull", false, "Skip the git pull step")
	cmd.Flags().BoolVar(&flags.noBuild, "no-build", false, "Start containers without rebuilding images")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Stop at the first failed step")

	return cmd
}

// runDeploy wires the production collaborators into the pipeline and
// reports the outcome.
func runDeploy(ctx context.Context, flags *deployFlags) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}
	Log().Debug("starting deploy", "projectDir", dir, "remote", cfg.Remote, "branch", cfg.Branch)

	composeFile, err := cfg.ResolveComposeFile(dir)
	if err != nil {
		return err
	}
	Log().Debug("resolved compose file", "path", composeFile)

	syncer, err := git.NewSyncer(dir)
	if err != nil {
		return err
	}

	// A dirty tree is only worth a warning — the wrapped script pulled
	// into whatever state the checkout was in, and so do we.
	if clean, cleanErr := syncer.IsClean(ctx); cleanErr == nil && !clean {
		Log().Warn("working tree has uncommitted changes")
	}

	orch := docker.Compose{
		Dir:         dir,
		File:        composeFile,
		ProjectName: cfg.ProjectName,
	}

	pipeline := deploy.New(syncer, orch, cfg.Remote, cfg.Branch, os.Stdout, Log())
	report, runErr := pipeline.Run(ctx, deploy.Options{
		SkipPull: flags.noPull,
		Build:    !flags.noBuild,
		FailFast: flags.failFast,
	})

	printDeployReport(report, syncer)

	if runErr != nil {
		// The first failed step determines the exit code; the report
		// above already told the operator which steps failed.
		return model.WrapCLIError(model.ExitCodeFor(runErr), "deployment finished with errors", runErr)
	}
	return nil
}

// printDeployReport outputs the per-step outcomes in text or JSON format.
// The fixed progress lines have already been printed by the pipeline;
// this is the summary that follows them.
func printDeployReport(report *model.DeployReport, syncer *git.Syncer) {
	if IsJSONOutput() {
		printDeployReportJSON(report, syncer)
		return
	}

	for _, step := range report.Steps {
		if step.Failed() {
			fmt.Printf("  %-5s failed (%s): %s\n", step.Step, roundedDuration(step.Duration), step.Message())
		} else {
			fmt.Printf("  %-5s ok (%s)\n", step.Step, roundedDuration(step.Duration))
		}
	}

	if head, err := syncer.Head(); err == nil {
		fmt.Printf("  deployed %s @ %s\n", head.Branch, head.ShortHash())
	}
}

// printDeployReportJSON outputs the deploy report as structured JSON.
func printDeployReportJSON(report *model.DeployReport, syncer *git.Syncer) {
	type stepJSON struct {
		Step       string `json:"step"`
		Ok         bool   `json:"ok"`
		DurationMS int64  `json:"durationMs"`
		Error      string `json:"error,omitempty"`
	}

	type resultJSON struct {
		StartedAt time.Time  `json:"startedAt"`
		Succeeded bool       `json:"succeeded"`
		Steps     []stepJSON `json:"steps"`
		Branch    string     `json:"branch,omitempty"`
		Commit    string     `json:"commit,omitempty"`
	}

	result := resultJSON{
		StartedAt: report.StartedAt,
		Succeeded: report.Succeeded(),
		Steps:     make([]stepJSON, 0, len(report.Steps)),
	}

	for _, step := range report.Steps {
		result.Steps = append(result.Steps, stepJSON{
			Step:       step.Step.String(),
			Ok:         !step.Failed(),
			DurationMS: step.Duration.Milliseconds(),
			Error:      step.Message(),
		})
	}

	if head, err := syncer.Head(); err == nil {
		result.Branch = head.Branch
		result.Commit = head.Hash
	}

	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// roundedDuration trims durations to a display-friendly precision.
func roundedDuration(d time.Duration) time.Duration {
	return d.Round(10 * time.Millisecond)
}
