package commands

import (
	"io"
	"os"
	"testing"

	"github.com/gsettools/gset/pkg/settings"
)

// testProperties describes the document every command test starts from
var testProperties = []struct {
	key   string
	typ   settings.PropertyType
	value any
}{
	{"NetworkUrl1", settings.TypeString, "https://example.com"},
	{"UseMilitaryFormat", settings.TypeBoolean, true},
	{"MaxHeartRate", settings.TypeInt32, int32(185)},
}

// newTestDocument builds the standard test document
func newTestDocument(t *testing.T) *settings.Settings {
	t.Helper()

	doc := settings.New()
	for _, p := range testProperties {
		prop, err := settings.NewProperty(p.key, p.typ, p.value)
		if err != nil {
			t.Fatalf("failed to build property %s: %v", p.key, err)
		}
		if err := doc.Add(prop); err != nil {
			t.Fatalf("failed to add property %s: %v", p.key, err)
		}
	}
	return doc
}

// writeTestSet writes the standard test document to path in binary form
func writeTestSet(t *testing.T, path string) *settings.Settings {
	t.Helper()

	doc := newTestDocument(t)
	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("failed to encode settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return doc
}

// writeTestJSON writes the standard test document to path in JSON form
func writeTestJSON(t *testing.T, path string) *settings.Settings {
	t.Helper()

	doc := newTestDocument(t)
	data, err := doc.EncodeJSON()
	if err != nil {
		t.Fatalf("failed to encode settings JSON: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return doc
}

// chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change to directory %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalDir); err != nil {
			t.Errorf("failed to restore working directory: %v", err)
		}
	})
}

// isolateCacheDir points the backup registry at a throwaway directory
func isolateCacheDir(t *testing.T) string {
	t.Helper()

	cacheDir := t.TempDir()
	t.Setenv("GSET_HOME", cacheDir)
	return cacheDir
}

// captureOutput runs fn and returns everything it wrote to stdout
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close pipe writer: %v", closeErr)
	}
	os.Stdout = old

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read captured output: %v", err)
	}
	return string(data)
}
