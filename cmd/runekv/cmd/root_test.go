package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/runekv/pkg/api"
	"github.com/ssargent/runekv/pkg/store"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestPutCommandWritesValue(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	err := runCommand(t, "put", "greeting", "hello", "--data-dir", dataDir)
	require.NoError(t, err)

	// The command closed the store on exit; reopen and verify the write.
	s, err := store.Open(store.Config{DataDir: dataDir})
	require.NoError(t, err)
	defer s.Close()

	families, err := api.OpenFamilies(s)
	require.NoError(t, err)

	value, found, err := families.KV.Get("greeting")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("hello"), value)
}

func TestTagAndIncrCommands(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	require.NoError(t, runCommand(t, "tag", "add", "doc1", "alpha", "beta", "--data-dir", dataDir))
	require.NoError(t, runCommand(t, "tag", "rm", "doc1", "alpha", "--data-dir", dataDir))
	require.NoError(t, runCommand(t, "incr", "hits", "5", "--data-dir", dataDir))
	require.NoError(t, runCommand(t, "incr", "--data-dir", dataDir, "hits", "--", "-2"))

	s, err := store.Open(store.Config{DataDir: dataDir})
	require.NoError(t, err)
	defer s.Close()

	families, err := api.OpenFamilies(s)
	require.NoError(t, err)

	tags, found, err := families.Tags.Get("doc1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"beta"}, tags)

	count, found, err := families.Counters.Get("hits")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(3), count)
}

func TestBuildLogger(t *testing.T) {
	log, err := buildLogger("debug")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = buildLogger("not-a-level")
	assert.Error(t, err)
}
