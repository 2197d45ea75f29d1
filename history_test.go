// File: snowcfg/history_test.go
package snowcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionHistoryTracker(t *testing.T) {
	cliVal := NewConfigValue("account", "cli_acc", "cli_arguments", PriorityCLIArgument)
	fileVal := NewConfigValue("account", "file_acc", "toml:config", PriorityFile)

	t.Run("Selection Marks Winner And Losers", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		tr.RecordDiscovery(cliVal)
		tr.RecordDiscovery(fileVal)
		tr.MarkSelected("account", cliVal)

		h := tr.GetResolutionHistory("account")
		require.NotNil(t, h)
		require.Len(t, h.Entries, 2)
		assert.True(t, h.Entries[0].WasUsed)
		assert.Empty(t, h.Entries[0].OverriddenBy)
		assert.False(t, h.Entries[1].WasUsed)
		assert.Equal(t, "cli_arguments", h.Entries[1].OverriddenBy)
		assert.Equal(t, "cli_acc", h.FinalValue)
		assert.False(t, h.DefaultUsed)
	})

	t.Run("Default Overwrites Prior Final", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		tr.RecordDiscovery(cliVal)
		tr.MarkSelected("account", cliVal)
		tr.MarkDefaultUsed("account", "fallback")

		h := tr.GetResolutionHistory("account")
		assert.True(t, h.DefaultUsed)
		assert.Equal(t, "fallback", h.FinalValue)
		assert.False(t, h.Entries[0].WasUsed)
	})

	t.Run("Nested Discovery Shares Key Space", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		v := NewConfigValue("connections.prod.account", "acc", "toml:connections", PriorityFile)
		tr.RecordNestedDiscovery("prod", v)

		h := tr.GetResolutionHistory("connections.prod.account")
		require.NotNil(t, h)
		assert.Len(t, h.Entries, 1)
	})

	t.Run("Untouched Key Has No History", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		assert.Nil(t, tr.GetResolutionHistory("nope"))
	})

	t.Run("Keys And Source Names Are Sorted", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		tr.RecordDiscovery(fileVal)
		tr.RecordDiscovery(NewConfigValue("warehouse", "wh", "environment", PriorityEnvironment))

		assert.Equal(t, []string{"account", "warehouse"}, tr.Keys())
		assert.Equal(t, []string{"environment", "toml:config"}, tr.SourceNames())
	})

	t.Run("Clear", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		tr.RecordDiscovery(cliVal)
		tr.Clear()
		assert.Empty(t, tr.Keys())
	})
}

func TestHistorySummary(t *testing.T) {
	cli := &stubSource{name: "cli", priority: PriorityCLIArgument, values: map[string]any{
		"account": "cli_acc",
	}}
	file := &stubSource{name: "file", priority: PriorityFile, values: map[string]any{
		"account": "file_acc",
		"user":    "file_user",
	}}

	r := NewConfigurationResolver([]ConfigurationSource{cli, file}, WithHistory())
	r.Resolve()
	r.ResolveValue("missing", "d")

	summary := r.HistorySummary()
	assert.Equal(t, 3, summary.TotalKeys)
	assert.Equal(t, 1, summary.OverriddenKeys)
	assert.Equal(t, 1, summary.DefaultKeys)
	assert.Equal(t, SourceStats{Discovered: 1, Selected: 1}, summary.Sources["cli"])
	assert.Equal(t, SourceStats{Discovered: 2, Selected: 1}, summary.Sources["file"])
}

func TestHistorySummaryWithoutTracker(t *testing.T) {
	r := NewConfigurationResolver(nil)
	summary := r.HistorySummary()
	assert.Zero(t, summary.TotalKeys)
	assert.NotNil(t, summary.Sources)
}
