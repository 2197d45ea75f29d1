// File: snowcfg/keymap_test.go
package snowcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapLegacyKey(t *testing.T) {
	t.Run("Renames", func(t *testing.T) {
		cases := map[string]string{
			"accountname":   "account",
			"username":      "user",
			"pwd":           "password",
			"dbname":        "database",
			"databasename":  "database",
			"schemaname":    "schema",
			"warehousename": "warehouse",
			"rolename":      "role",
		}
		for legacy, current := range cases {
			got, renamed := mapLegacyKey(legacy)
			assert.Equal(t, current, got)
			assert.True(t, renamed, legacy)
		}
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		got, renamed := mapLegacyKey("ACCOUNTNAME")
		assert.Equal(t, "account", got)
		assert.True(t, renamed)
	})

	t.Run("Unmapped Passes Through Lowercased", func(t *testing.T) {
		got, renamed := mapLegacyKey("Host")
		assert.Equal(t, "host", got)
		assert.False(t, renamed)
	})
}

func TestLegacyAliases(t *testing.T) {
	assert.Equal(t, []string{"database", "dbname", "databasename"}, legacyAliases("database"))
	assert.Equal(t, []string{"account", "accountname"}, legacyAliases("ACCOUNT"))
	assert.Equal(t, []string{"host"}, legacyAliases("host"))
}

func TestLegacyRawValue(t *testing.T) {
	assert.Equal(t, "accountname=foo", legacyRawValue("accountname", "foo"))
	assert.Equal(t, "port=443", legacyRawValue("port", 443))
}
