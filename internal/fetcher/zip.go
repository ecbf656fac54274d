package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// extractInventory extracts the single CSV, XLSX, or JSON member of a ZIP
// export into destDir and returns its path. Directories and archiver
// metadata entries are ignored.
func extractInventory(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var members []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || metadataEntry(f.Name) {
			continue
		}
		if !inventoryMember(f.Name) {
			continue
		}
		members = append(members, f)
	}

	if len(members) != 1 {
		return "", eris.Errorf("zip: expected exactly 1 inventory file in %s, got %d", zipPath, len(members))
	}
	return extractZIPEntry(members[0], destDir)
}

// inventoryMember accepts only the data extensions an export ships with.
// Text files inside archives are readmes, not CSV.
func inventoryMember(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".xlsx", ".json":
		return true
	}
	return false
}

func metadataEntry(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._")
}

// extractZIPEntry writes f under destDir, flattening any directories.
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, filepath.Base(f.Name))
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("zip: illegal path %q", f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "zip: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "zip: write file")
	}
	return destPath, nil
}
