// Package store persists fetched asset content to the local filesystem. It
// decides between saving a new file, skipping byte-identical content and
// overwriting changed content, creating parent directories as needed.
package store

import (
	"bytes"
	"os"

	"github.com/assetmirror/assetmirror/internal/logger"
	"github.com/assetmirror/assetmirror/pkg/errors"
	"github.com/assetmirror/assetmirror/pkg/fsutil"
	"github.com/assetmirror/assetmirror/pkg/model"
)

// Store writes asset content under the local mirror root.
type Store struct{}

// New creates a new Store.
func New() *Store {
	return &Store{}
}

// Persist writes data to path. It returns OutcomeSaved for a new file,
// OutcomeSkipped when an existing file already holds identical bytes, and
// OutcomeOverwritten when differing content was replaced. Re-running a batch
// against a populated mirror is therefore cheap for unchanged assets.
//
// Any directory-creation or write failure returns OutcomeFilesystem together
// with the underlying error; the error never needs to abort the caller.
func (s *Store) Persist(path string, data []byte) (model.Outcome, error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return model.OutcomeFilesystem, errors.Wrapf(err, "could not create directory for %s", path)
	}

	outcome := model.OutcomeSaved
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return model.OutcomeFilesystem, errors.Wrapf(errors.ErrTargetIsDir, "cannot write %s", path)
		}
		existing, readErr := os.ReadFile(path)
		if readErr != nil {
			// Unreadable existing content counts as differing.
			logger.Warnf("could not read existing file %s for comparison: %v, overwriting", path, readErr)
		} else if bytes.Equal(existing, data) {
			return model.OutcomeSkipped, nil
		}
		outcome = model.OutcomeOverwritten
	}

	if err := os.WriteFile(path, data, fsutil.FileModeDefault); err != nil {
		return model.OutcomeFilesystem, errors.Wrapf(err, "could not write %s", path)
	}
	return outcome, nil
}
