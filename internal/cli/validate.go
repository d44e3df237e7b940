// Package cli — validate.go implements the "redeploy validate" command,
// which checks the compose file without touching git or Docker.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/redeploy/internal/compose"
)

// NewValidateCommand creates the "validate" cobra command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the compose file and list its services",
		Long: `Parse the configured compose file with the compose specification
reference loader and report the declared services. Fails if the file
cannot be parsed or declares no services.

Examples:
  redeploy validate
  redeploy validate --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context())
		},
	}
}

func runValidate(ctx context.Context) error {
	dir, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	composeFile, err := cfg.ResolveComposeFile(dir)
	if err != nil {
		return err
	}

	spec, err := compose.Load(ctx, composeFile, cfg.ProjectName)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		printValidateJSON(spec)
	} else {
		fmt.Printf("%s: ok (%d services)\n", spec.Path, len(spec.Services))
		for _, s := range spec.Services {
			fmt.Printf("  %s\n", s)
		}
	}
	return nil
}

func printValidateJSON(spec *compose.Spec) {
	result := struct {
		Path     string   `json:"path"`
		Services []string `json:"services"`
	}{
		Path:     spec.Path,
		Services: spec.Services,
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}
