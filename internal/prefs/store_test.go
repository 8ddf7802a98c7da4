package prefs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/gameprogress/assets"
	"github.com/robalobadob/gameprogress/internal/sqlitedb"
)

func TestStore_DefaultsAndTypeMismatch(t *testing.T) {
	s, _ := NewMemoryStore("")

	assert.Equal(t, 7, s.GetInt("missing", 7))
	assert.Equal(t, 1.5, s.GetFloat("missing", 1.5))
	assert.Equal(t, "x", s.GetString("missing", "x"))

	s.SetString("name", "meadow")
	assert.Equal(t, -1, s.GetInt("name", -1), "non-numeric value falls back to default")
	assert.Equal(t, "meadow", s.GetString("name", ""))

	s.SetInt("P0.Score", -50)
	assert.Equal(t, -50, s.GetInt("P0.Score", 0))
	s.SetFloat("volume", 0.25)
	assert.Equal(t, 0.25, s.GetFloat("volume", 1))
}

func TestStore_WritesNeedSave(t *testing.T) {
	ctx := context.Background()
	s, mem := NewMemoryStore("")

	s.SetInt("L1.Score", 120)
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, persisted, "L1.Score")

	require.NoError(t, s.Save(ctx))
	persisted, err = mem.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "120", persisted["L1.Score"])
	assert.Equal(t, 1, mem.Saves())

	reopened, err := Open(ctx, mem, "")
	require.NoError(t, err)
	assert.Equal(t, 120, reopened.GetInt("L1.Score", 0))
}

func TestStore_DeleteAllAndKey(t *testing.T) {
	s, _ := NewMemoryStore("")
	s.SetInt("a", 1)
	s.SetInt("b", 2)

	s.DeleteKey("a")
	assert.False(t, s.HasKey("a"))
	assert.True(t, s.HasKey("b"))

	s.DeleteAll()
	assert.False(t, s.HasKey("b"))
	assert.Equal(t, 0, s.GetInt("b", 0))
}

func TestStore_SecureRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mem := NewMemoryStore("test-secret")
	require.True(t, s.SupportsSecurePrefs())

	s.SetUseSecurePrefs(true)
	assert.True(t, s.UseSecurePrefs())
	s.SetInt("P0.Coins", 42)
	assert.Equal(t, 42, s.GetInt("P0.Coins", 0))
	assert.True(t, s.HasKey("P0.Coins"))

	// A per-call override reads the plain namespace.
	assert.Equal(t, 0, s.GetInt("P0.Coins", 0, Secure(false)))

	require.NoError(t, s.Save(ctx))
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	for k, v := range persisted {
		assert.True(t, strings.HasPrefix(k, securePrefix))
		assert.NotContains(t, k, "Coins")
		assert.NotEqual(t, "42", v)
	}

	s.DeleteKey("P0.Coins")
	assert.False(t, s.HasKey("P0.Coins"))
}

func TestStore_SecureWithWrongSecret(t *testing.T) {
	ctx := context.Background()
	s, mem := NewMemoryStore("one")
	s.SetString("token", "abc", Secure(true))
	require.NoError(t, s.Save(ctx))

	other, err := Open(ctx, mem, "two")
	require.NoError(t, err)
	assert.Equal(t, "def", other.GetString("token", "def", Secure(true)))
}

func TestStore_SecureUnsupportedWithoutSecret(t *testing.T) {
	s, _ := NewMemoryStore("")
	assert.False(t, s.SupportsSecurePrefs())

	s.SetUseSecurePrefs(true)
	assert.False(t, s.UseSecurePrefs())
	s.SetInt("x", 3)
	assert.Equal(t, 3, s.GetInt("x", 0, Secure(false)))
}

func TestStore_ReservedPlainKeys(t *testing.T) {
	ctx := context.Background()
	s, mem := NewMemoryStore("test-secret")
	s.SetInt("P0.Coins", 42, Secure(true))
	name := s.seal.name("P0.Coins")

	s.SetString(name, "forged")
	assert.Equal(t, "def", s.GetString(name, "def"))
	assert.False(t, s.HasKey(name))
	s.DeleteKey(name)
	assert.Equal(t, 42, s.GetInt("P0.Coins", 0, Secure(true)), "secure entry untouched")

	s.SetInt("~x", 1)
	assert.Equal(t, 0, s.GetInt("~x", 0))
	require.NoError(t, s.Save(ctx))
	persisted, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
	assert.NotContains(t, persisted, "~x")

	// Secure mode hashes the name, so the prefix is fine there.
	s.SetInt("~x", 5, Secure(true))
	assert.Equal(t, 5, s.GetInt("~x", 0, Secure(true)))
}

func TestStore_SecureNonceFailurePanics(t *testing.T) {
	s, mem := NewMemoryStore("test-secret")
	s.seal.random = iotest.ErrReader(errors.New("entropy exhausted"))

	assert.PanicsWithError(t, "secure prefs: read nonce: entropy exhausted", func() {
		s.SetInt("P0.Coins", 42, Secure(true))
	})
	assert.False(t, s.HasKey("P0.Coins"))
	assert.Equal(t, 0, mem.Saves())
}

func TestSQLite_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	db, err := sqlitedb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlitedb.Migrate(db, assets.Migrations(), assets.MigrationsDir))

	s, err := Open(ctx, NewSQLite(db), "")
	require.NoError(t, err)
	s.SetInt("L2.StarsWon", 3)
	s.SetString("FreePrize.AvailableAt", "2026-01-01T00:00:00Z")
	require.NoError(t, s.Save(ctx))

	s.DeleteKey("L2.StarsWon")
	require.NoError(t, s.Save(ctx))

	again, err := Open(ctx, NewSQLite(db), "")
	require.NoError(t, err)
	assert.False(t, again.HasKey("L2.StarsWon"))
	assert.Equal(t, "2026-01-01T00:00:00Z", again.GetString("FreePrize.AvailableAt", ""))
}
