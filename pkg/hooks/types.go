// Package hooks runs operator-provided Tengo scripts at defined points of a
// mirror run.
package hooks

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	// PreBatch runs once before any fetch is started.
	PreBatch HookType = "pre-batch"
	// PostSave runs after each asset that was saved or overwritten.
	PostSave HookType = "post-save"
	// PostBatch runs once after all fetches have finished.
	PostBatch HookType = "post-batch"
)

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hook scripts.
type HookContext struct {
	// URL is the remote URL of the asset, for per-asset hooks.
	URL string
	// LocalPath is where the asset was written, for per-asset hooks.
	LocalPath string
	// Outcome is the fetch outcome name, for per-asset hooks.
	Outcome string
	// Vars carries additional values such as batch summary counts.
	Vars map[string]interface{}
}

// Manager defines the interface for registering and running hooks.
type Manager interface {
	// Execute runs the hook of the given type with the given context.
	Execute(hookType HookType, ctx HookContext) error

	// AddScript adds or replaces the script for a hook type.
	AddScript(hookType HookType, script string)

	// HasScript checks if a script exists for the given hook type.
	HasScript(hookType HookType) bool
}
