package hooks

import (
	"os"

	"github.com/assetmirror/assetmirror/pkg/errors"
)

// LoadScripts reads the configured script files and registers them on the
// manager. Empty paths are skipped; a missing or unreadable file is an error
// so a misconfigured hook is caught at startup rather than mid-batch.
func LoadScripts(manager Manager, paths map[HookType]string) error {
	for hookType, path := range paths {
		if path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(errors.ErrHookLoad, "%s hook from %s: %v", hookType, path, err)
		}
		manager.AddScript(hookType, string(content))
	}
	return nil
}
