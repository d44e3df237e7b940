// Package config loads the optional redeploy configuration file.
//
// The file describes where to pull source from and which compose file to
// drive, with defaults matching the conventional layout: remote "origin",
// branch "main", "docker-compose.yml" in the project directory. A missing
// file is not an error — the tool is fully usable with defaults alone.
//
// Two formats are accepted: YAML (.redeploy.yml / .redeploy.yaml, parsed
// strictly with gopkg.in/yaml.v3) and JSON with comments (.redeploy.json,
// stripped with github.com/tidwall/jsonc before parsing with
// encoding/json).
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/redeploy/internal/model"
)

// Default values matching the wrapped deployment script.
const (
	// DefaultRemote is the version-control remote pulled from.
	DefaultRemote = "origin"

	// DefaultBranch is the branch pulled from the remote.
	DefaultBranch = "main"

	// DefaultComposeFile is the compose specification file, relative to
	// the project directory.
	DefaultComposeFile = "docker-compose.yml"
)

// searchNames are the config file names probed in the project directory,
// in preference order.
var searchNames = []string{
	".redeploy.yml",
	".redeploy.yaml",
	".redeploy.json",
}

// Config holds the deploy configuration for one project.
type Config struct {
	// Remote is the git remote name to pull from.
	Remote string `yaml:"remote" json:"remote"`

	// Branch is the git branch to pull.
	Branch string `yaml:"branch" json:"branch"`

	// ComposeFile is the compose specification file path. Relative paths
	// resolve against the project directory.
	ComposeFile string `yaml:"compose_file" json:"composeFile"`

	// ProjectName optionally overrides the compose project name.
	// Empty means compose derives it from the directory name.
	ProjectName string `yaml:"project_name" json:"projectName"`
}

// defaults returns a Config pre-populated with the default values.
// Decoding overlays the file's fields on top, so omitted keys keep
// their defaults while explicitly empty values fail validation.
func defaults() Config {
	return Config{
		Remote:      DefaultRemote,
		Branch:      DefaultBranch,
		ComposeFile: DefaultComposeFile,
	}
}

// Load returns the configuration for projectDir.
//
// When explicitPath is non-empty it is loaded directly and a missing
// file is an error. Otherwise the standard names are probed in
// projectDir, and absence of all of them yields pure defaults.
func Load(projectDir, explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = findConfigFile(projectDir)
		if path == "" {
			cfg := defaults()
			return &cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	cfg := defaults()
	if err := decode(path, data, &cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid config file %s", path), err)
	}

	if err := cfg.validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid config file %s", path), err)
	}

	return &cfg, nil
}

// findConfigFile probes the standard config file names in projectDir and
// returns the first that exists, or "".
func findConfigFile(projectDir string) string {
	for _, name := range searchNames {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// decode parses data into cfg based on the file extension.
//
// YAML decoding is strict (unknown keys are rejected) to catch typos like
// "composefile". The JSON variant allows comments and trailing commas —
// jsonc.ToJSON rewrites them to plain JSON in place — and is equally
// strict about unknown fields.
func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			// An empty YAML document hits io.EOF; treat it as
			// "no overrides" rather than an error.
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		return nil
	}
}

// validate checks the decoded configuration for values no deploy could
// work with.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Remote) == "" {
		return fmt.Errorf("remote must not be empty")
	}
	if strings.TrimSpace(c.Branch) == "" {
		return fmt.Errorf("branch must not be empty")
	}
	if strings.TrimSpace(c.ComposeFile) == "" {
		return fmt.Errorf("compose_file must not be empty")
	}
	if err := model.ValidateProjectName(c.ProjectName); err != nil {
		return err
	}
	return nil
}

// ResolveComposeFile resolves the configured compose file against
// projectDir, exactly once. Every consumer — teardown, rebuild, validate
// — must go through this so all of them reference the same path.
//
// Relative paths may not escape the project directory; a compose file
// elsewhere on disk has to be given as an absolute path, which makes the
// intent explicit in the config.
func (c *Config) ResolveComposeFile(projectDir string) (string, error) {
	if filepath.IsAbs(c.ComposeFile) {
		return filepath.Clean(c.ComposeFile), nil
	}

	resolved := filepath.Clean(filepath.Join(projectDir, c.ComposeFile))

	rel, err := filepath.Rel(projectDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("compose_file %q escapes the project directory", c.ComposeFile))
	}

	return resolved, nil
}
