// Package interfaces defines core interfaces for the settings toolchain.
// This package provides interfaces for settings documents and backup management.
package interfaces

import (
	"github.com/gsettools/gset/pkg/settings"
)

// Document defines the interface for a mutable settings document
type Document interface {
	// Len returns the number of properties in the document
	Len() int

	// Properties returns the properties in document order
	Properties() []settings.Property

	// Get returns the property named key
	Get(key string) (settings.Property, error)

	// Has reports whether a property named key exists
	Has(key string) bool

	// Add appends a new property to the document
	Add(p settings.Property) error

	// Edit replaces the value of an existing property
	Edit(key string, value any) error

	// Remove deletes the property named key
	Remove(key string) error

	// Encode serializes the document to the binary SET format
	Encode() ([]byte, error)

	// EncodeJSON serializes the document to the JSON interchange format
	EncodeJSON() ([]byte, error)
}

// Ensure the settings document implements the Document interface
var _ Document = (*settings.Settings)(nil)

// BackupManager defines the interface for backup cache operations
type BackupManager interface {
	// MarkSourceUsed records a settings file in the sources table
	MarkSourceUsed(sourcePath string) error

	// GC trims stale and excess backups, returning how many were removed
	GC(retain int) (int, error)

	// Clean removes every stored backup
	Clean() error

	// GetCacheDir returns the cache directory
	GetCacheDir() string

	// GetDBPath returns the database path
	GetDBPath() string

	// Close closes the backup manager
	Close() error
}
