package config

import "github.com/proxyforge/proxyforge/common"

// Deployment constants for the standard self-hosted setup.
const (
	defaultComposeTemplateURL = "https://raw.githubusercontent.com/proxyforge/deploy/main/docker-compose.tpl.yml"
	defaultConfigTemplateURL  = "https://raw.githubusercontent.com/proxyforge/deploy/main/config.tpl.yml"
	defaultBrokerRepoURL      = "https://github.com/proxyforge/session-broker.git"
	defaultRepoDir            = "session-broker"
	defaultScraperSubdir      = "scraper"
	defaultSessionOutRelPath  = "out/session.json"
)

// NewDefaultConfig returns the configuration for the standard deployment.
func NewDefaultConfig() *BootstrapConfig {
	return &BootstrapConfig{
		ComposeTemplateURL: defaultComposeTemplateURL,
		ConfigTemplateURL:  defaultConfigTemplateURL,

		ComposeFile: common.ComposeFileName,
		ConfigFile:  common.ConfigFileName,
		SessionFile: common.SessionFileName,

		BrokerRepoURL:     defaultBrokerRepoURL,
		RepoDir:           defaultRepoDir,
		ScraperSubdir:     defaultScraperSubdir,
		SessionOutRelPath: defaultSessionOutRelPath,

		RequiredTools: []string{"git", "node", "npm", "docker"},

		DefaultImageTag: common.DefaultImageTag,
		Arm64ImageTag:   common.Arm64ImageTag,

		CacheHostLocal:     common.CacheHostLocal,
		CacheHostInNetwork: common.CacheHostInNetwork,
	}
}
