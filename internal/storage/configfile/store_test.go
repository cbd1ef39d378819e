package configfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-dashboard/internal/storage"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestValidateFilename(t *testing.T) {
	valid := []string{"strategy.json", "a.b.json", "risk-limits_v2.json"}
	for _, name := range valid {
		assert.NoError(t, ValidateFilename(name), name)
	}

	invalid := []string{
		"",
		".json",
		"../etc/passwd.json",
		"..json",
		"sub/strategy.json",
		`sub\strategy.json`,
		"/etc/algotrading/config/strategy.json",
		"strategy.yaml",
		"strategy.json.bak",
		"strategy",
	}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateFilename(name), storage.ErrInvalidInput, name)
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "absent"))

	files, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestStore_ListSortedJSONOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.json", "{}")
	writeFile(t, dir, "alpha.json", `{"a":1}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	files, err := NewStoreAt(dir).List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "alpha.json", files[0].Name)
	assert.Equal(t, int64(7), files[0].Size)
	assert.False(t, files[0].Modified.IsZero())
	assert.Equal(t, "zeta.json", files[1].Name)
}

func TestStore_Read(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "strategy.json", `{"max_qty": 100, "ratio": 0.10000000000000000001, "symbols": ["TCS"]}`)
	store := NewStoreAt(dir)

	content, err := store.Read(context.Background(), "strategy.json")
	require.NoError(t, err)

	m, ok := content.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("100"), m["max_qty"])
	assert.Equal(t, json.Number("0.10000000000000000001"), m["ratio"])
	assert.Equal(t, []any{"TCS"}, m["symbols"])
}

func TestStore_ReadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"a":`)
	store := NewStoreAt(dir)
	ctx := context.Background()

	_, err := store.Read(ctx, "missing.json")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.Read(ctx, "broken.json")
	assert.ErrorIs(t, err, storage.ErrMalformedJSON)

	_, err = store.Read(ctx, "../broken.json")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestStore_WriteObjectAndString(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "a.json", json.RawMessage(`{"b":[1,2],"a":true}`)))
	require.NoError(t, store.Write(ctx, "b.json", json.RawMessage(`"{\"b\":[1,2],\"a\":true}"`)))

	a, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.json"))
	require.NoError(t, err)

	want := "{\n  \"a\": true,\n  \"b\": [\n    1,\n    2\n  ]\n}\n"
	assert.Equal(t, want, string(a))
	assert.Equal(t, want, string(b))
}

func TestStore_WriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "limits.json", json.RawMessage(`{"price": 3712.50, "qty": 12345678901234567890}`)))

	content, err := store.Read(ctx, "limits.json")
	require.NoError(t, err)
	m := content.(map[string]any)
	assert.Equal(t, json.Number("3712.50"), m["price"])
	assert.Equal(t, json.Number("12345678901234567890"), m["qty"])

	// Overwrite leaves no temp files behind.
	require.NoError(t, store.Write(ctx, "limits.json", json.RawMessage(`[]`)))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "limits.json", entries[0].Name())
}

func TestStore_WriteErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir)
	ctx := context.Background()

	assert.ErrorIs(t, store.Write(ctx, "a.json", nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(ctx, "a.json", json.RawMessage(`null`)), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(ctx, "a.json", json.RawMessage(`"not json"`)), storage.ErrMalformedJSON)
	assert.ErrorIs(t, store.Write(ctx, "a.txt", json.RawMessage(`{}`)), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Write(ctx, "../a.json", json.RawMessage(`{}`)), storage.ErrInvalidInput)

	_, err := os.Stat(filepath.Join(dir, "a.json"))
	assert.True(t, os.IsNotExist(err), "rejected writes must not create files")
}

func TestStore_WriteIntoMissingDir(t *testing.T) {
	store := NewStoreAt(filepath.Join(t.TempDir(), "absent"))

	err := store.Write(context.Background(), "a.json", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, storage.ErrIO)
}
