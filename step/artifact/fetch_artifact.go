package artifact

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/proxyforge/proxyforge/common"
	"github.com/proxyforge/proxyforge/file"
	"github.com/proxyforge/proxyforge/runtime"
	"github.com/proxyforge/proxyforge/step"
)

// FetchArtifactStep retrieves remote template content, applies a single
// deterministic substitution, and writes the result atomically to a local
// file. Either the full transformed content is written or nothing is; a
// network or write failure aborts the whole workflow.
type FetchArtifactStep struct {
	step.BaseStep
	URL       string
	Transform Transform
	// DestName is the artifact filename, relative to the runtime's base
	// directory; it is also the key under which the produced path is
	// registered in the artifact registry.
	DestName string

	// Client defaults to http.DefaultClient. No internal timeout is imposed;
	// bound the request through the client if needed.
	Client *http.Client
}

// NewFetchArtifactStep creates a fetch step for one artifact.
func NewFetchArtifactStep(name, url string, transform Transform, destName string) step.Step {
	return &FetchArtifactStep{
		BaseStep:  step.NewBaseStep(name, fmt.Sprintf("Fetch and patch %s", destName)),
		URL:       url,
		Transform: transform,
		DestName:  destName,
	}
}

func (s *FetchArtifactStep) Init(rt runtime.Runtime, log *logrus.Entry) error {
	if s.URL == "" {
		return errors.Errorf("fetch %s: URL cannot be empty", s.DestName)
	}
	if s.Transform == nil {
		return errors.Errorf("fetch %s: transform cannot be nil", s.DestName)
	}
	if s.DestName == "" {
		return errors.Errorf("fetch step %s: destination filename cannot be empty", s.Name())
	}
	return s.BaseStep.Init(rt, log)
}

func (s *FetchArtifactStep) Execute(rt runtime.Runtime, log *logrus.Entry) (string, bool, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	log.Infof("Fetching %s from %s", s.DestName, s.URL)
	resp, err := client.Get(s.URL)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to fetch %s from %s", s.DestName, s.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, errors.Errorf("failed to fetch %s from %s: unexpected status %s", s.DestName, s.URL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read response body for %s", s.DestName)
	}

	patched, err := s.Transform(string(body))
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to transform %s", s.DestName)
	}

	dest := filepath.Join(rt.BaseDir(), s.DestName)
	if err := file.WriteFileAtomic(dest, []byte(patched), common.FileMode0644); err != nil {
		return "", false, errors.Wrapf(err, "failed to write %s", dest)
	}

	rt.Artifacts().Set(s.DestName, dest)
	log.Infof("Wrote %s (%d bytes).", dest, len(patched))
	return fmt.Sprintf("wrote %s", dest), true, nil
}

var _ step.Step = (*FetchArtifactStep)(nil)
