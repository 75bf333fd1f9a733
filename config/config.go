package config

import (
	"strings"

	"github.com/pkg/errors"
)

// BootstrapConfig holds everything the workflow needs that is not an
// environment binding: remote template locations, artifact filenames, the
// companion repository, and the tool set the dependency checker probes.
// Defaults cover the standard deployment; a YAML file can override them.
type BootstrapConfig struct {
	// Remote templates fetched by the artifact steps.
	ComposeTemplateURL string `yaml:"composeTemplateURL"`
	ConfigTemplateURL  string `yaml:"configTemplateURL"`

	// Output artifact filenames, relative to the invocation directory.
	ComposeFile string `yaml:"composeFile"`
	ConfigFile  string `yaml:"configFile"`
	SessionFile string `yaml:"sessionFile"`

	// Companion session-broker repository.
	BrokerRepoURL string `yaml:"brokerRepoURL"`
	// RepoDir is the transient clone directory, relative to the invocation
	// directory. It never outlives the process.
	RepoDir string `yaml:"repoDir"`
	// ScraperSubdir is the subdirectory of the clone holding the scraper's
	// npm package and register script.
	ScraperSubdir string `yaml:"scraperSubdir"`
	// SessionOutRelPath is where the register script writes the session file,
	// relative to ScraperSubdir.
	SessionOutRelPath string `yaml:"sessionOutRelPath"`

	// RequiredTools are probed by the dependency checker before any mutation.
	RequiredTools []string `yaml:"requiredTools"`

	// Image tag variants for the compose descriptor.
	DefaultImageTag string `yaml:"defaultImageTag"`
	Arm64ImageTag   string `yaml:"arm64ImageTag"`

	// Cache host rewrite applied to the service config.
	CacheHostLocal     string `yaml:"cacheHostLocal"`
	CacheHostInNetwork string `yaml:"cacheHostInNetwork"`
}

// Validate performs structural validation of the configuration.
func (c *BootstrapConfig) Validate() error {
	if c.ComposeTemplateURL == "" {
		return errors.New("config validation failed: composeTemplateURL is required")
	}
	if c.ConfigTemplateURL == "" {
		return errors.New("config validation failed: configTemplateURL is required")
	}
	if c.BrokerRepoURL == "" {
		return errors.New("config validation failed: brokerRepoURL is required")
	}
	if c.ComposeFile == "" || c.ConfigFile == "" || c.SessionFile == "" {
		return errors.New("config validation failed: artifact filenames must not be empty")
	}
	if c.RepoDir == "" || c.RepoDir == "." || c.RepoDir == ".." {
		return errors.Errorf("config validation failed: repoDir %q is not a safe transient directory", c.RepoDir)
	}
	if strings.ContainsAny(c.RepoDir, "/\\") {
		return errors.Errorf("config validation failed: repoDir %q must be a plain directory name", c.RepoDir)
	}
	if c.ScraperSubdir == "" {
		return errors.New("config validation failed: scraperSubdir is required")
	}
	if c.SessionOutRelPath == "" {
		return errors.New("config validation failed: sessionOutRelPath is required")
	}
	if len(c.RequiredTools) == 0 {
		return errors.New("config validation failed: requiredTools must not be empty")
	}
	if c.DefaultImageTag == "" || c.Arm64ImageTag == "" {
		return errors.New("config validation failed: image tags must not be empty")
	}
	if c.CacheHostLocal == "" || c.CacheHostInNetwork == "" {
		return errors.New("config validation failed: cache host rewrite pair must not be empty")
	}
	return nil
}

// Artifacts returns the output artifact filenames the verifier checks,
// in reporting order.
func (c *BootstrapConfig) Artifacts() []string {
	return []string{c.ComposeFile, c.ConfigFile, c.SessionFile}
}
