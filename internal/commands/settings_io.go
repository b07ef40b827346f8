package commands

import (
	"fmt"
	"os"

	"github.com/gsettools/gset/pkg/backup"
	"github.com/gsettools/gset/pkg/config"
	"github.com/gsettools/gset/pkg/settings"
)

// resolveSettingsPath picks the file a command operates on: an explicit
// --file flag wins, otherwise the settings_file from .gset.yaml (which
// defaults to GARMIN.SET in the current directory).
func resolveSettingsPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	cfg, err := config.LoadOrDefault("")
	if err != nil {
		// A broken .gset.yaml should not mask the actual operation
		fmt.Printf("⚠️  Warning: %v\n", err)
		cfg = config.DefaultConfig()
	}
	return cfg.SettingsFile
}

// loadSettingsFile reads and decodes a settings file in either
// representation. The returned flag reports whether the input was binary
// SET data, so writers can keep the representation they were given.
func loadSettingsFile(path string) (*settings.Settings, bool, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied settings path
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	binary := settings.IsBinary(data)
	doc, err := settings.Load(data)
	if err != nil {
		return nil, binary, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return doc, binary, nil
}

// writeSettingsFile encodes the document in the requested representation
// and writes it over path.
func writeSettingsFile(doc *settings.Settings, path string, binary bool) error {
	var (
		data []byte
		err  error
	)
	if binary {
		data, err = doc.Encode()
	} else {
		data, err = doc.EncodeJSON()
	}
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}
	return nil
}

// backupSettingsFile records a copy of path in the backup registry before
// a destructive edit. Registry trouble is reported but never blocks the
// edit itself.
func backupSettingsFile(path string) {
	mgr, err := backup.Open()
	if err != nil {
		fmt.Printf("⚠️  Warning: failed to open backup registry: %v\n", err)
		return
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close backup registry: %v\n", closeErr)
		}
	}()

	if _, err := mgr.Save(path); err != nil {
		fmt.Printf("⚠️  Warning: failed to back up %s: %v\n", path, err)
	}
}
