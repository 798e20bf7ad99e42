package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envelope.json")
	require.NoError(t, os.WriteFile(path, []byte(envelope), 0o600))

	f, err := NewFileFetcher(FileConfig{Path: path})
	require.NoError(t, err)
	data, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, envelope, string(data))

	require.NoError(t, os.WriteFile(path, []byte(`{"sections":[]}`), 0o600))
	data, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"sections":[]}`, string(data))
}

func TestFileFetcher_Errors(t *testing.T) {
	_, err := NewFileFetcher(FileConfig{})
	assert.Error(t, err)

	f, err := NewFileFetcher(FileConfig{Path: filepath.Join(t.TempDir(), "missing.json")})
	require.NoError(t, err)
	_, err = f.Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
