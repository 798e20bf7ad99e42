package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sectionfeed/core/factory"
	"github.com/kilianp07/sectionfeed/infra/fetch"
	"github.com/kilianp07/sectionfeed/infra/output"
	"github.com/kilianp07/sectionfeed/providers/clubs"
	"github.com/kilianp07/sectionfeed/providers/standings"
)

func TestProviders(t *testing.T) {
	assert.Equal(t, []string{"clubs", "standings"}, ProviderNames())

	all, err := Providers(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, clubs.SectionID, all[0].ID())
	assert.Equal(t, standings.SectionID, all[1].ID())

	some, err := Providers([]string{"standings"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, standings.SectionID, some[0].ID())

	_, err = Providers([]string{"weather"})
	assert.ErrorIs(t, err, factory.ErrUnknownModule)
}

func TestRegisterProvider_Duplicate(t *testing.T) {
	err := RegisterProvider("clubs", nil)
	assert.Error(t, err)
}

func TestBuiltinFetchers(t *testing.T) {
	assert.Equal(t, []string{"file", "http", "mqtt"}, Fetchers.Names())

	path := filepath.Join(t.TempDir(), "envelope.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sections":[]}`), 0o600))
	f, err := Fetchers.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": path}})
	require.NoError(t, err)
	assert.IsType(t, &fetch.FileFetcher{}, f)
	data, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"sections":[]}`, string(data))

	f, err = Fetchers.Create(factory.ModuleConfig{Type: "http", Conf: map[string]any{"url": "http://localhost/feed", "timeout": "2s"}})
	require.NoError(t, err)
	assert.IsType(t, &fetch.HTTPFetcher{}, f)

	_, err = Fetchers.Create(factory.ModuleConfig{Type: "http"})
	assert.Error(t, err)
	_, err = Fetchers.Create(factory.ModuleConfig{Type: "ftp"})
	assert.ErrorIs(t, err, factory.ErrUnknownModule)
}

func TestBuiltinOutputs(t *testing.T) {
	assert.Equal(t, []string{"file", "mqtt", "stdout"}, Outputs.Names())

	o, err := Outputs.Create(factory.ModuleConfig{Type: "stdout", Conf: map[string]any{"format": "text"}})
	require.NoError(t, err)
	assert.IsType(t, &output.WriterOutput{}, o)

	path := filepath.Join(t.TempDir(), "out.jsonl")
	o, err = Outputs.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": path}})
	require.NoError(t, err)
	require.NoError(t, o.(*output.WriterOutput).Close())

	_, err = Outputs.Create(factory.ModuleConfig{Type: "stdout", Conf: map[string]any{"format": "xml"}})
	assert.Error(t, err)
}
