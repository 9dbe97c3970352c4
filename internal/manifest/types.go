// Package manifest defines the desired state of the workspace: the tools,
// shell aliases, environment variables, and alias migrations the engine
// converges the machine onto. The built-in defaults are code-level
// constants; an optional Lua overlay file can extend or override them.
package manifest

// ToolSpec declares an external CLI the workspace depends on.
type ToolSpec struct {
	// Name is the executable name looked up on PATH
	Name string
	// Package is the npm package identifier for global installation,
	// empty when the tool is not npm-managed (checked only, never installed)
	Package string
}

// EnvVar declares a persisted environment variable.
type EnvVar struct {
	Name  string
	Value string
}

// Alias declares a shell alias bound to a command string.
type Alias struct {
	Name    string
	Command string
}

// Migration maps a deprecated alias name to its replacement. Migrating is
// a rename: the bound command moves to the new name unchanged.
type Migration struct {
	Old string
	New string
}

// Manifest is the immutable desired-state input for a convergence run.
type Manifest struct {
	Tools      []ToolSpec
	EnvVars    []EnvVar
	Aliases    []Alias
	Migrations []Migration

	// DeprecatedAliases are alias names eligible for removal once their
	// migrations have run.
	DeprecatedAliases []string

	// DisabledExtensions lists extension ids the user opted out of via
	// the overlay file.
	DisabledExtensions []string
}

// ExtensionDisabled reports whether the overlay disabled the extension.
func (m Manifest) ExtensionDisabled(id string) bool {
	for _, disabled := range m.DisabledExtensions {
		if disabled == id {
			return true
		}
	}
	return false
}
