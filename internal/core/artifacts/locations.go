// SPDX-License-Identifier: Apache-2.0

package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kusari-oss/cfnupd/internal/core/format"
	"github.com/kusari-oss/cfnupd/internal/core/models"
)

const (
	// ParametersFileName is the file name used for the parameter list in every location
	ParametersFileName = "parameters.json"

	suffixLength = 12
)

// TemplateFileName returns the file name used for a stack's template
func TemplateFileName(stackName string) string {
	return stackName + ".yaml"
}

// Manager decides where a run's artifacts live. Scratch directories are created
// under TempRoot, saved copies under WorkDir.
type Manager struct {
	TempRoot string
	WorkDir  string
}

// NewManager creates a manager rooted at the OS temp directory and the current
// working directory
func NewManager() (*Manager, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("error getting current directory: %w", err)
	}
	return &Manager{TempRoot: os.TempDir(), WorkDir: wd}, nil
}

// AllocateScratch creates a fresh directory named <stack>-<random> and returns
// the artifact paths inside it. The files themselves are not created.
func (m *Manager) AllocateScratch(stackName string) (models.ArtifactSet, error) {
	dir := filepath.Join(m.TempRoot, fmt.Sprintf("%s-%s", stackName, randomSuffix()))

	if err := os.MkdirAll(m.TempRoot, 0755); err != nil {
		return models.ArtifactSet{}, fmt.Errorf("%w: %s: %v", models.ErrDirectoryCreateFailed, m.TempRoot, err)
	}
	// A name collision must fail, never reuse an existing directory
	if err := os.Mkdir(dir, 0700); err != nil {
		return models.ArtifactSet{}, fmt.Errorf("%w: %s: %v", models.ErrDirectoryCreateFailed, dir, err)
	}

	return models.ArtifactSet{
		Dir:            dir,
		TemplatePath:   filepath.Join(dir, TemplateFileName(stackName)),
		ParametersPath: filepath.Join(dir, ParametersFileName),
	}, nil
}

// Persist copies both artifacts into <WorkDir>/<stack>/ keeping their names. A
// failed second copy leaves the first in place.
func (m *Manager) Persist(set models.ArtifactSet, stackName string) (string, error) {
	target := filepath.Join(m.WorkDir, stackName)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", models.ErrDirectoryCreateFailed, target, err)
	}

	for _, src := range []string{set.TemplatePath, set.ParametersPath} {
		dst := filepath.Join(target, filepath.Base(src))
		if err := format.CopyFile(src, dst); err != nil {
			return target, fmt.Errorf("%w: %s: %v", models.ErrArtifactCopyFailed, filepath.Base(src), err)
		}
	}

	return target, nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLength]
}
