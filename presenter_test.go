// File: snowcfg/presenter_test.go
package snowcfg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSensitiveKey(t *testing.T) {
	sensitive := []string{
		"password",
		"connections.prod.password",
		"connections.prod.private_key_file_pwd",
		"connections.prod.token",
		"master_token",
		"client_secret",
		"passcode",
	}
	for _, key := range sensitive {
		assert.True(t, isSensitiveKey(key), key)
	}

	visible := []string{
		"account",
		"connections.prod.user",
		"connections.prod.private_key_file",
		"connections.prod.private_key_path",
		"connections.prod.token_file_path",
		"log_level",
	}
	for _, key := range visible {
		assert.False(t, isSensitiveKey(key), key)
	}
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, RedactionMarker, maskValue("password", "hunter2"))
	assert.Equal(t, "acc", maskValue("account", "acc"))
	assert.Equal(t, "443", maskValue("port", 443))
}

func presenterFixture(t *testing.T) *ResolutionPresenter {
	t.Helper()
	cli := &stubSource{name: "cli_arguments", priority: PriorityCLIArgument, values: map[string]any{
		"account": "cli_acc",
	}}
	file := &stubSource{name: "config_files", priority: PriorityFile, values: map[string]any{
		"account":  "file_acc",
		"password": "hunter2",
	}}
	r := NewConfigurationResolver([]ConfigurationSource{cli, file}, WithHistory())
	r.Resolve()
	r.ResolveValue("missing", "fallback")
	return NewResolutionPresenter(r.History())
}

func TestPresenterTable(t *testing.T) {
	table := presenterFixture(t).Table()

	assert.Contains(t, table, "KEY")
	assert.Contains(t, table, "FINAL")
	assert.Contains(t, table, "cli_acc")
	assert.Contains(t, table, "file_acc")
	assert.Contains(t, table, RedactionMarker)
	assert.NotContains(t, table, "hunter2")
	assert.Contains(t, table, "fallback (default)")
	assert.Contains(t, table, "-")
}

func TestPresenterChain(t *testing.T) {
	p := presenterFixture(t)

	t.Run("Selected And Overridden", func(t *testing.T) {
		chain := p.Chain("account")
		assert.Contains(t, chain, "1. [SELECTED] cli_arguments: cli_acc")
		assert.Contains(t, chain, "2. [overridden by cli_arguments] config_files: file_acc")
	})

	t.Run("Default", func(t *testing.T) {
		chain := p.Chain("missing")
		assert.Contains(t, chain, "default used: fallback")
	})

	t.Run("Untracked Key", func(t *testing.T) {
		assert.Empty(t, p.Chain("never_seen"))
	})

	t.Run("Renamed Raw Is Shown", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		v := ConfigValue{
			Key:        "connections.default.account",
			Value:      "foo",
			SourceName: "snowsql_config",
			Priority:   PriorityFile,
			RawValue:   "accountname=foo",
		}
		tr.RecordDiscovery(v)
		tr.MarkSelected("connections.default.account", v)

		chain := NewResolutionPresenter(tr).Chain("connections.default.account")
		assert.Contains(t, chain, "(raw: accountname=foo)")
	})

	t.Run("Sensitive Raw Is Masked", func(t *testing.T) {
		tr := NewResolutionHistoryTracker()
		v := ConfigValue{
			Key:        "connections.default.password",
			Value:      "hunter2",
			SourceName: "snowsql_config",
			Priority:   PriorityFile,
			RawValue:   "pwd=hunter2",
		}
		tr.RecordDiscovery(v)
		tr.MarkSelected("connections.default.password", v)

		chain := NewResolutionPresenter(tr).Chain("connections.default.password")
		assert.NotContains(t, chain, "hunter2")
		assert.Contains(t, chain, RedactionMarker)
	})
}

func TestPresenterExportJSON(t *testing.T) {
	data, err := presenterFixture(t).ExportJSON()
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			TotalKeys      int `json:"total_keys"`
			OverriddenKeys int `json:"overridden_keys"`
			DefaultKeys    int `json:"default_keys"`
		} `json:"summary"`
		Histories map[string]struct {
			FinalValue  any  `json:"final_value"`
			DefaultUsed bool `json:"default_used"`
			Entries     []struct {
				SourceName   string `json:"source_name"`
				Value        any    `json:"value"`
				RawValue     string `json:"raw_value"`
				WasUsed      bool   `json:"was_used"`
				OverriddenBy string `json:"overridden_by"`
			} `json:"entries"`
		} `json:"histories"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 3, doc.Summary.TotalKeys)
	assert.Equal(t, 1, doc.Summary.OverriddenKeys)
	assert.Equal(t, 1, doc.Summary.DefaultKeys)

	account := doc.Histories["account"]
	assert.Equal(t, "cli_acc", account.FinalValue)
	require.Len(t, account.Entries, 2)
	assert.True(t, account.Entries[0].WasUsed)
	assert.Equal(t, "cli_arguments", account.Entries[1].OverriddenBy)

	password := doc.Histories["password"]
	assert.Equal(t, RedactionMarker, password.FinalValue)
	require.Len(t, password.Entries, 1)
	assert.Equal(t, RedactionMarker, password.Entries[0].Value)
	assert.Equal(t, RedactionMarker, password.Entries[0].RawValue)

	missing := doc.Histories["missing"]
	assert.True(t, missing.DefaultUsed)
	assert.Equal(t, "fallback", missing.FinalValue)
}

func TestPresenterExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "resolution.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))

	require.NoError(t, presenterFixture(t).ExportToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
