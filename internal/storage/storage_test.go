package storage

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineStore_ReferenceIsThePayload(t *testing.T) {
	store := NewInlineStore()
	uri := "data:image/png;base64,aGVsbG8="

	ref, err := store.Save(context.Background(), SlotIDProof, uri)
	require.NoError(t, err)
	assert.Equal(t, uri, ref)
}

func TestDiskStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskStore(root)
	require.NoError(t, err)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("image bytes"))

	t.Run("writes content-addressed file", func(t *testing.T) {
		ref, err := store.Save(context.Background(), SlotSelfie, uri)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(ref, "file://"), "expected file ref, got %q", ref)

		data, err := os.ReadFile(strings.TrimPrefix(ref, "file://"))
		require.NoError(t, err)
		assert.Equal(t, []byte("image bytes"), data)
	})

	t.Run("identical payloads share a reference", func(t *testing.T) {
		ref1, err := store.Save(context.Background(), SlotIDProof, uri)
		require.NoError(t, err)
		ref2, err := store.Save(context.Background(), SlotIDProof, uri)
		require.NoError(t, err)
		assert.Equal(t, ref1, ref2)
	})

	t.Run("undecodable payload errors", func(t *testing.T) {
		_, err := store.Save(context.Background(), SlotIDProof, "data:image/png;base64,%%%")
		assert.Error(t, err)
	})
}

func TestNewDiskStore_RequiresRoot(t *testing.T) {
	_, err := NewDiskStore("")
	assert.Error(t, err)
}
