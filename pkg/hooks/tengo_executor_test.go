package hooks_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetmirror/assetmirror/pkg/hooks"
)

func TestTengoExecutor(t *testing.T) {
	executor := hooks.NewTengoExecutor()
	ctx := hooks.HookContext{
		URL:       "https://assets.example.com/images/a.png",
		LocalPath: "/mirror/images/a.png",
		Outcome:   "saved",
		Vars: map[string]interface{}{
			"attempted": 3,
		},
	}

	t.Run("Execute valid script", func(t *testing.T) {
		executor.AddScript(hooks.PostSave, `// valid script that does nothing`)

		err := executor.Execute(hooks.PostSave, ctx)
		assert.NoError(t, err)
	})

	t.Run("Execute script with runtime error", func(t *testing.T) {
		executor.AddScript(hooks.PreBatch, `non_existent_function()`)

		err := executor.Execute(hooks.PreBatch, ctx)
		assert.Error(t, err)
	})

	t.Run("Execute unregistered hook type is a no-op", func(t *testing.T) {
		err := executor.Execute("never-registered", ctx)
		assert.NoError(t, err)
	})

	t.Run("Script error variable is surfaced", func(t *testing.T) {
		executor.AddScript(hooks.PostBatch, `err := "something went wrong"`)

		err := executor.Execute(hooks.PostBatch, ctx)
		assert.ErrorContains(t, err, "something went wrong")
	})

	t.Run("Context variables are accessible", func(t *testing.T) {
		script := `
			u := url
			p := localPath
			o := outcome
			n := attempted

			if u == "" || p == "" || o != "saved" || n != 3 {
				err := "unexpected context"
			}
		`
		executor.AddScript(hooks.PostSave, script)

		err := executor.Execute(hooks.PostSave, ctx)
		assert.NoError(t, err)
	})

	t.Run("HasScript check", func(t *testing.T) {
		fresh := hooks.NewTengoExecutor()
		assert.False(t, fresh.HasScript(hooks.PreBatch))

		fresh.AddScript(hooks.PreBatch, "// test script")
		assert.True(t, fresh.HasScript(hooks.PreBatch))
	})
}

func TestLoadScripts(t *testing.T) {
	t.Run("loads scripts from files", func(t *testing.T) {
		dir := t.TempDir()
		scriptPath := filepath.Join(dir, "post-batch.tengo")
		require.NoError(t, os.WriteFile(scriptPath, []byte(`// noop`), 0o644))

		executor := hooks.NewTengoExecutor()
		err := hooks.LoadScripts(executor, map[hooks.HookType]string{
			hooks.PostBatch: scriptPath,
			hooks.PreBatch:  "", // empty path is skipped
		})

		require.NoError(t, err)
		assert.True(t, executor.HasScript(hooks.PostBatch))
		assert.False(t, executor.HasScript(hooks.PreBatch))
	})

	t.Run("missing file is an error", func(t *testing.T) {
		executor := hooks.NewTengoExecutor()
		err := hooks.LoadScripts(executor, map[hooks.HookType]string{
			hooks.PreBatch: filepath.Join(t.TempDir(), "missing.tengo"),
		})
		assert.Error(t, err)
	})
}
