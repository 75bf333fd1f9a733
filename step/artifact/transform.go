package artifact

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/common"
)

// Transform is a deterministic text substitution applied to fetched template
// content before it is written to disk. Each fetch step applies exactly one.
type Transform func(content string) (string, error)

// ImageTagForArch maps a uname -m style CPU architecture to the image tag the
// compose descriptor should reference. x86_64 uses the default tag; arm64 and
// aarch64 use the ARM64 tag; anything else falls back to the default tag with
// a warning. Both tags come from the configuration so deployments can point
// at alternative image variants.
func ImageTagForArch(arch, defaultTag, arm64Tag string, log *logrus.Entry) string {
	switch common.Arch(strings.ToLower(arch)) {
	case common.ArchX8664:
		return defaultTag
	case common.ArchArm64, common.ArchAarch64:
		return arm64Tag
	default:
		log.Warnf("Unrecognized host architecture %q, falling back to image tag %q.", arch, defaultTag)
		return defaultTag
	}
}

// ComposeImageTransform replaces the image tag placeholder in the compose
// template with the tag selected for the given host architecture.
func ComposeImageTransform(arch, defaultTag, arm64Tag string, log *logrus.Entry) Transform {
	return func(content string) (string, error) {
		if !strings.Contains(content, common.ImageTagPlaceholder) {
			return "", errors.Errorf("compose template does not contain the %s placeholder", common.ImageTagPlaceholder)
		}
		tag := ImageTagForArch(arch, defaultTag, arm64Tag, log)
		return strings.ReplaceAll(content, common.ImageTagPlaceholder, tag), nil
	}
}

// CacheHostTransform rewrites the default localhost cache address in the
// service config to the name of the cache service as addressed from within
// the composed network. Nothing else in the content is altered.
func CacheHostTransform(localAddr, inNetworkAddr string) Transform {
	return func(content string) (string, error) {
		if !strings.Contains(content, localAddr) {
			return "", errors.Errorf("service config template does not contain the default cache address %q", localAddr)
		}
		return strings.ReplaceAll(content, localAddr, inNetworkAddr), nil
	}
}
