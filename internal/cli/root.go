// Package cli implements the cobra-based CLI commands for redeploy.
//
// Each subcommand (deploy, pull, down, up, status, validate) is defined
// in its own file within this package. This file defines the root command
// that serves as the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/redeploy/internal/config"
	"github.com/mmr-tortoise/redeploy/internal/model"
)

// Global flag variables shared across all subcommands. These are bound to
// cobra persistent flags on the root command, which makes them available
// to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose mirrors the debug log to stderr.
	verbose bool

	// configPath is an explicit config file path (--config). Empty means
	// probe the standard names in the project directory.
	configPath string

	// projectDir is the deployment's working directory (--project-dir).
	// Empty means the current directory.
	projectDir string
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "redeploy",
		Short: "Pull, rebuild, and restart a compose-based deployment",
		Long: `redeploy is a deployment convenience wrapper for a single Docker Compose
project whose source lives in a git checkout.

A deploy pulls the latest code from the configured remote and branch,
tears the compose project down, and brings it back up with freshly built
images, in that order. Each stage is also available as its own command.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The debug logger needs the resolved project directory, so it is
		// initialized after flag parsing and before any RunE.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveProjectDir()
			if err != nil {
				return err
			}
			initLogger(dir, verbose)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: .redeploy.yml in the project directory)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "Project directory (default: current directory)")

	// Register subcommands. Each subcommand is defined in its own file
	// and returns a *cobra.Command.
	rootCmd.AddCommand(NewDeployCommand())
	rootCmd.AddCommand(NewPullCommand())
	rootCmd.AddCommand(NewDownCommand())
	rootCmd.AddCommand(NewUpCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewValidateCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// OS exit codes. CLIError types carry their own codes; other errors
// default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode, because stdout is
		// reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// resolveProjectDir returns the absolute project directory: --project-dir
// when given, else the current working directory.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to resolve project directory", err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}
	return cwd, nil
}

// loadConfig resolves the project directory and loads the deploy config
// for it. Every subcommand starts here.
func loadConfig() (string, *config.Config, error) {
	dir, err := resolveProjectDir()
	if err != nil {
		return "", nil, err
	}

	cfg, err := config.Load(dir, configPath)
	if err != nil {
		return "", nil, err
	}

	return dir, cfg, nil
}
