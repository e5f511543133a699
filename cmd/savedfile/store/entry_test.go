package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEntry_Key(t *testing.T) {
	assert.Equal(t, "report", NewEntry("report", "").Key())
	assert.Equal(t, "report-v1", NewEntry("report", "v1").Key())
	assert.Nil(t, NewEntry("report", "").Version)
	assert.Equal(t, "v1", NewEntry("report", "v1").VersionString())
}

func TestEntry_KeyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-zA-Z0-9_.]{1,20}`).Draw(t, "name")
		version := rapid.StringMatching(`[a-zA-Z0-9_.]{1,10}`).Draw(t, "version")

		if NewEntry(name, version).Key() != NewEntry(name, version).Key() {
			t.Fatalf("key of (%q, %q) is not deterministic", name, version)
		}
		if NewEntry(name, "").Key() == NewEntry(name, version).Key() {
			t.Fatalf("default and versioned keys collide for (%q, %q)", name, version)
		}
	})
}

func TestValidateName(t *testing.T) {
	t.Run("plain name", func(t *testing.T) {
		require.NoError(t, ValidateName("report"))
	})

	t.Run("dash is allowed", func(t *testing.T) {
		require.NoError(t, ValidateName("my-report"))
	})

	t.Run("empty name", func(t *testing.T) {
		err := ValidateName("")
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("reserved character", func(t *testing.T) {
		err := ValidateName("report@home")
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "'@'")
	})

	for _, name := range []string{".", "..", "../../.bashrc", "a/b", `a\b`, "/etc/passwd"} {
		t.Run("path-like "+name, func(t *testing.T) {
			require.ErrorIs(t, ValidateName(name), ErrValidation)
		})
	}

	t.Run("dots inside a name are fine", func(t *testing.T) {
		require.NoError(t, ValidateName(".bashrc"))
		require.NoError(t, ValidateName("app.conf"))
	})
}

func TestValidateVersion(t *testing.T) {
	require.NoError(t, ValidateVersion(""))
	require.NoError(t, ValidateVersion("1.2.3"))
	require.NoError(t, ValidateVersion("v2"))

	for _, v := range []string{".", "..", "../x", "x/y", `x\y`} {
		require.ErrorIs(t, ValidateVersion(v), ErrValidation, "version %q", v)
	}
}
