package common

import "io/fs"

const (
	AppName = "proxyforge"
)

// Logger field names, ordered by the console formatter.
const (
	LogFieldApp      = "app"
	LogFieldRunID    = "run_id"
	LogFieldPipeline = "pipeline"
	LogFieldStepName = "step"
)

const (
	// FileMode0755 represents rwxr-xr-x
	FileMode0755 fs.FileMode = 0755
	// FileMode0644 represents rw-r--r--
	FileMode0644 fs.FileMode = 0644
	// FileMode0600 represents rw-------
	FileMode0600 fs.FileMode = 0600
	// FileMode0700 represents rwx------
	FileMode0700 fs.FileMode = 0700
)

// Required environment bindings. Values are credentials and must never be
// logged; only the names may appear in diagnostics.
const (
	EnvAccountEmail    = "PROXYFORGE_EMAIL"
	EnvAccountPassword = "PROXYFORGE_PASSWORD"
	EnvAuthBlob        = "PROXYFORGE_AUTH_BLOB"
)

// RequiredEnvVars returns the environment variable names the validator checks,
// in reporting order.
func RequiredEnvVars() []string {
	return []string{EnvAccountEmail, EnvAccountPassword, EnvAuthBlob}
}

// Output artifacts, relative to the invocation directory. The verifier checks
// exactly this set.
const (
	ComposeFileName = "docker-compose.yml"
	ConfigFileName  = "config.yml"
	SessionFileName = "session.json"
)

// OutputArtifacts returns the artifact filenames the verifier checks,
// in reporting order.
func OutputArtifacts() []string {
	return []string{ComposeFileName, ConfigFileName, SessionFileName}
}

// Arch is a uname -m style CPU architecture class.
type Arch string

const (
	ArchX8664   Arch = "x86_64"
	ArchArm64   Arch = "arm64"
	ArchAarch64 Arch = "aarch64"
)

// Image tag variants substituted into the compose descriptor. The default tag
// doubles as the fallback for unrecognized architectures.
const (
	DefaultImageTag = "latest"
	Arm64ImageTag   = "arm64"
)

// ImageTagPlaceholder is the literal token in the compose template that the
// fetcher replaces with the selected image tag.
const ImageTagPlaceholder = "{{IMAGE_TAG}}"

// Cache service addressing: the fetched service config defaults to a
// localhost cache address, which must be rewritten to the name of the cache
// service as addressed from within the composed network.
const (
	CacheHostLocal     = "localhost:6379"
	CacheHostInNetwork = "redis:6379"
)
