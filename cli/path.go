package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/grand/pkg"
)

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the path of the configuration file with its extension
// replaced by ext.
func configPath(ext string) string {
	file := pkg.ConfigFile()

	return strings.TrimSuffix(file, filepath.Ext(file)) + ext
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
