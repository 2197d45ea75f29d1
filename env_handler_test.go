// File: snowcfg/env_handler_test.go
package snowcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeEnvHandler(t *testing.T) {
	clearEnvPrefix(t, "SNOWFLAKE_", "SNOWSQL_")
	h := NewSnowflakeEnvHandler()

	t.Run("Flat Keys", func(t *testing.T) {
		t.Setenv("SNOWFLAKE_ACCOUNT", "env_acc")
		t.Setenv("SNOWFLAKE_PORT", "443")

		values, err := h.Discover("")
		require.NoError(t, err)

		assert.Equal(t, "env_acc", values["account"].Value)
		assert.Equal(t, 443, values["port"].Value)
		assert.Equal(t, "443", values["port"].RawValue)
		assert.Equal(t, "snowflake_cli_env", values["account"].SourceName)
		assert.Equal(t, PriorityEnvironment, values["account"].Priority)
	})

	t.Run("Connection Scoped Keys", func(t *testing.T) {
		t.Setenv("SNOWFLAKE_CONNECTIONS_PROD_ACCOUNT", "prod_acc")
		t.Setenv("SNOWFLAKE_CONNECTIONS_MY_CONN_PRIVATE_KEY_FILE_PWD", "s3cret")

		values, err := h.Discover("")
		require.NoError(t, err)

		assert.Equal(t, "prod_acc", values["connections.prod.account"].Value)
		// The field suffix table must win over a greedy name split.
		assert.Equal(t, "s3cret", values["connections.my_conn.private_key_file_pwd"].Value)
		assert.NotContains(t, values, "connections.my_conn_private_key.file_pwd")
	})

	t.Run("Single Key Query", func(t *testing.T) {
		t.Setenv("SNOWFLAKE_ACCOUNT", "env_acc")
		t.Setenv("SNOWFLAKE_WAREHOUSE", "env_wh")

		values, err := h.Discover("warehouse")
		require.NoError(t, err)
		assert.Len(t, values, 1)
		assert.Equal(t, "env_wh", values["warehouse"].Value)
	})

	t.Run("Not File Backed", func(t *testing.T) {
		_, err := h.DiscoverFromFile("/tmp/config.toml", "")
		assert.ErrorIs(t, err, ErrNotFileBacked)
		assert.False(t, h.CanHandleFile("/tmp/config.toml"))
	})
}

func TestSnowsqlEnvHandler(t *testing.T) {
	clearEnvPrefix(t, "SNOWFLAKE_", "SNOWSQL_")
	h := NewSnowsqlEnvHandler()

	t.Run("Legacy Names Are Migrated", func(t *testing.T) {
		t.Setenv("SNOWSQL_PWD", "hunter2")
		t.Setenv("SNOWSQL_ACCOUNTNAME", "legacy_acc")

		values, err := h.Discover("")
		require.NoError(t, err)

		assert.Equal(t, "hunter2", values["password"].Value)
		assert.Equal(t, "SNOWSQL_PWD=hunter2", values["password"].RawValue)
		assert.Equal(t, "legacy_acc", values["account"].Value)
		assert.Equal(t, "SNOWSQL_ACCOUNTNAME=legacy_acc", values["account"].RawValue)
		assert.Equal(t, "snowsql_env", values["account"].SourceName)
	})

	t.Run("Unmapped Names Pass Through", func(t *testing.T) {
		t.Setenv("SNOWSQL_HOST", "myhost")

		values, err := h.Discover("")
		require.NoError(t, err)
		assert.Equal(t, "myhost", values["host"].Value)
		assert.Equal(t, "myhost", values["host"].RawValue)
	})

	t.Run("No Connection Scoped Scheme", func(t *testing.T) {
		assert.False(t, h.SupportsKey("connections.prod.account"))
		assert.True(t, h.SupportsKey("account"))
	})
}

func TestEnvironmentSourceMigrationFallback(t *testing.T) {
	clearEnvPrefix(t, "SNOWFLAKE_", "SNOWSQL_")
	src := NewEnvironmentSource(DefaultEnvHandlers(), discardLogger())

	t.Setenv("SNOWFLAKE_ACCOUNT", "current_acc")
	t.Setenv("SNOWSQL_ACCOUNTNAME", "legacy_acc")
	t.Setenv("SNOWSQL_ROLENAME", "legacy_role")

	values := src.Discover("")

	// Per-key fallback: the current scheme claims account, the legacy scheme
	// still supplies role because no current variable covers it.
	assert.Equal(t, "current_acc", values["account"].Value)
	assert.Equal(t, "snowflake_cli_env", values["account"].SourceName)
	assert.Equal(t, "legacy_role", values["role"].Value)
	assert.Equal(t, "snowsql_env", values["role"].SourceName)
}
