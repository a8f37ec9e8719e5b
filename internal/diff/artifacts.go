package diff

import (
	"os"
	"path/filepath"
)

// ArtifactPair returns the deterministic temp paths for a script's
// historical and current text. Repeated flows for the same script
// overwrite these rather than accumulating files.
func ArtifactPair(tempDir, base, ext string) (oldPath, newPath string) {
	oldPath = filepath.Join(tempDir, base+"_history"+ext)
	newPath = filepath.Join(tempDir, base+"_current"+ext)
	return oldPath, newPath
}

// BackupPath returns the deterministic temp path holding a script's
// pre-revert content.
func BackupPath(tempDir, base, ext string) string {
	return filepath.Join(tempDir, base+"_revert_backup"+ext)
}

// writeArtifact writes one comparison artifact, creating the temp
// directory on first use.
func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
