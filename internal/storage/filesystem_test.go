package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covergen/internal/domain"
)

func TestWriteCoverAndReset(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	key, err := store.WriteCover(context.Background(), "P001", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "covers/P001_cover.png", key)
	assert.FileExists(t, store.CoverPath("P001"))

	require.NoError(t, store.ResetCovers())
	assert.NoFileExists(t, store.CoverPath("P001"))
	assert.DirExists(t, filepath.Join(store.BasePath(), CoversDir))
}

func TestResultsRoundTripKeepsUnicode(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	records := []domain.ResultRecord{{
		ProductID:  "P001",
		Cover:      "P001_cover.png",
		Title:      "睡个好觉",
		Tags:       []string{"好物"},
		CoverTitle: "深睡神器",
		Features:   []string{"慢回弹"},
		Price:      "199",
	}}
	require.NoError(t, store.WriteResults(context.Background(), records))

	raw, err := os.ReadFile(filepath.Join(store.BasePath(), ResultsFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "睡个好觉")

	got, err := store.ReadResults()
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadResultsMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.ReadResults()
	require.ErrorIs(t, err, domain.ErrMissingResource)
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "..", "../etc/passwd", "a/../../b"} {
		_, err := sanitizeKey(key)
		assert.Error(t, err, "key %q", key)
	}
	got, err := sanitizeKey(`\covers\x.png`)
	require.NoError(t, err)
	assert.Equal(t, "covers/x.png", got)
}

func TestWriteHonoursCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Write(ctx, "a.txt", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteCoverRejectsPathLikeIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	for _, id := range []string{"A/B", "../P9", `A\B`, ".", ""} {
		_, err := store.WriteCover(context.Background(), id, []byte("png"))
		assert.Error(t, err, "id %q", id)
	}
	assert.NoFileExists(t, filepath.Join(store.BasePath(), "P9_cover.png"))
	covers, err := store.ListCovers()
	require.NoError(t, err)
	assert.Empty(t, covers)
}

func TestListCovers(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	covers, err := store.ListCovers()
	require.NoError(t, err)
	assert.Empty(t, covers)

	ctx := context.Background()
	_, err = store.WriteCover(ctx, "P1", []byte("a"))
	require.NoError(t, err)
	_, err = store.Write(ctx, CoversDir+"/notes.txt", []byte("skip"))
	require.NoError(t, err)

	covers, err = store.ListCovers()
	require.NoError(t, err)
	require.Len(t, covers, 1)
	assert.Equal(t, "P1_cover.png", covers[0].Name)
	assert.Equal(t, []byte("a"), covers[0].Data)
}
