// File: snowcfg/ini_handler_test.go
package snowcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snowsqlFixture = `
[connections]
accountname = foo
username = bar
port = 443

[connections.dev]
dbname = devdb

[options]
log_level = debug

[variables]
stage = mystage
`

func TestSnowsqlFileHandler(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "config", snowsqlFixture)
	h := NewSnowsqlFileHandler()

	t.Run("Legacy Keys Are Migrated With Raw Preserved", func(t *testing.T) {
		values, err := h.DiscoverFromFile(path, "")
		require.NoError(t, err)

		acct := values["connections.default.account"]
		assert.Equal(t, "foo", acct.Value)
		assert.Equal(t, "accountname=foo", acct.RawValue)
		assert.Equal(t, "snowsql_config", acct.SourceName)

		assert.Equal(t, "bar", values["connections.default.user"].Value)
		assert.Equal(t, 443, values["connections.default.port"].Value)
		assert.Equal(t, "devdb", values["connections.dev.database"].Value)
		assert.Equal(t, "dbname=devdb", values["connections.dev.database"].RawValue)
	})

	t.Run("Options Surface As Flat Keys", func(t *testing.T) {
		values, err := h.DiscoverFromFile(path, "")
		require.NoError(t, err)
		assert.Equal(t, "debug", values["log_level"].Value)
	})

	t.Run("Current Name Query Finds Legacy Spelling", func(t *testing.T) {
		values, err := h.DiscoverFromFile(path, "connections.default.account")
		require.NoError(t, err)
		assert.Len(t, values, 1)
		assert.Equal(t, "foo", values["connections.default.account"].Value)
	})

	t.Run("Variables Section", func(t *testing.T) {
		vars, err := h.Variables(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"stage": "mystage"}, vars)
	})

	t.Run("Connections In File", func(t *testing.T) {
		names, err := h.ConnectionsInFile(path)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"default", "dev"}, names)
	})

	t.Run("File Compatibility", func(t *testing.T) {
		assert.True(t, h.CanHandleFile("/home/u/.snowsql/config"))
		assert.True(t, h.CanHandleFile("/etc/snowsql.cnf"))
		assert.True(t, h.CanHandleFile("/etc/snowsql.ini"))
		assert.False(t, h.CanHandleFile("/home/u/.snowflake/config.toml"))
		assert.False(t, h.CanHandleFile("/home/u/.snowsql/history"))
	})
}

func TestSnowsqlFileHandlerCollidingLegacyNames(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "config", `
[connections]
dbname = first
databasename = second
`)

	values, err := NewSnowsqlFileHandler().DiscoverFromFile(path, "")
	require.NoError(t, err)

	// Both legacy spellings map to database; the first occurrence wins.
	assert.Equal(t, "first", values["connections.default.database"].Value)
}
