package manifest

// Default returns the built-in desired state for the Claude workspace
// toolchain. Instances are constructed fresh per run; callers may append
// overlay entries without affecting later runs.
func Default() Manifest {
	return Manifest{
		Tools: []ToolSpec{
			{Name: "claude", Package: "@anthropic-ai/claude-code"},
			{Name: "git"},
			{Name: "jq"},
			{Name: "gh"},
			{Name: "tmux"},
		},
		EnvVars: []EnvVar{
			{Name: "CLAUDE_WORKSPACE", Value: "$HOME/workspace"},
		},
		Aliases: []Alias{
			{Name: "cc", Command: "claude"},
			{Name: "ccc", Command: "claude --continue"},
			{Name: "ccr", Command: "claude --resume"},
			{Name: "ccv", Command: "claude --verbose"},
			{Name: "ccusage", Command: "npx ccusage@latest"},
		},
		Migrations: []Migration{
			{Old: "cld", New: "cc"},
			{Old: "cldc", New: "ccc"},
			{Old: "cldr", New: "ccr"},
		},
		DeprecatedAliases: []string{"cld", "cldc", "cldr", "cldv"},
	}
}
