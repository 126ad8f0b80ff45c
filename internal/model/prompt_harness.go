package model

// HarnessScopeGlobal is the scope key of the single harness row used by
// the default deployment. The table is keyed by scope so per-project
// harnesses can be added later without a migration.
const HarnessScopeGlobal = "global"

// PromptHarness is a row in the `prompt_harnesses` table: one system
// prompt per scope, upserted on write.
type PromptHarness struct {
	Scope        string // prompt_harnesses.scope
	SystemPrompt string // prompt_harnesses.system_prompt
}
