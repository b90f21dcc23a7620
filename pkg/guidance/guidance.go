// Package guidance copies the embedded usage documentation into a
// client-visible directory on first run, so an MCP client (e.g. an editor's
// rules directory) can surface it to the assistant without a network
// round-trip.
package guidance

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

//go:embed docs
var docsFS embed.FS

const docsRoot = "docs"

// Copy writes every embedded guidance document into destDir, creating it
// if necessary. A document already present with the same name is
// overwritten so guidance updates ship with the binary; failures are
// logged and do not abort startup, since guidance is convenience, not a
// correctness requirement.
func Copy(destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		slog.Warn("guidance: failed to create destination directory", "dir", destDir, "error", err)
		return err
	}

	return fs.WalkDir(docsFS, docsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(docsRoot, path)
		if err != nil {
			return err
		}

		data, err := docsFS.ReadFile(path)
		if err != nil {
			slog.Warn("guidance: failed to read embedded document", "path", path, "error", err)
			return nil
		}

		dest := filepath.Join(destDir, rel)
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			slog.Warn("guidance: failed to write document", "dest", dest, "error", err)
			return nil
		}
		return nil
	})
}
