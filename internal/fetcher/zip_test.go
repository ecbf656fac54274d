package fetcher

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestZIP writes an archive whose members are name -> content.
func createTestZIP(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestLoadRows_ZIP(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.zip")
	createTestZIP(t, path, map[string]string{
		"export/external.csv":            "id,name,lat,lon\nE1,A lot,25.0,121.5\nE2,B lot,25.1,121.6\n",
		"export/README.md":               "not data",
		"__MACOSX/export/._external.csv": "junk",
	})

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "E1", rows[0]["id"])
	assert.Equal(t, "B lot", rows[1]["name"])
}

func TestLoadRows_ZIPIgnoresTextFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.zip")
	createTestZIP(t, path, map[string]string{
		"README.txt": "column notes",
		"data.csv":   "id,name\nE1,A lot\n",
	})

	rows, err := LoadRows(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "E1", rows[0]["id"])
}

func TestLoadRows_ZIPMultipleInventories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.zip")
	createTestZIP(t, path, map[string]string{
		"managed.csv":  "id\n1\n",
		"external.csv": "id\n2\n",
	})

	_, err := LoadRows(context.Background(), path, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly 1 inventory file")
}

func TestLoadRows_ZIPEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	createTestZIP(t, path, map[string]string{"notes.md": "nothing"})

	_, err := LoadRows(context.Background(), path, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0")
}

func TestLoadRows_ZIPNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, writeTestFile(path, "plain text"))

	_, err := LoadRows(context.Background(), path, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip: open archive")
}

func TestInventoryMember(t *testing.T) {
	for name, want := range map[string]bool{
		"data.csv":         true,
		"dir/DATA.XLSX":    true,
		"export/rows.json": true,
		"README.txt":       false,
		"notes.md":         false,
		"legacy.xls":       false,
	} {
		assert.Equal(t, want, inventoryMember(name), name)
	}
}

func TestMetadataEntry(t *testing.T) {
	assert.True(t, metadataEntry("__MACOSX/a.csv"))
	assert.True(t, metadataEntry("dir/._a.csv"))
	assert.False(t, metadataEntry("dir/a.csv"))
}
