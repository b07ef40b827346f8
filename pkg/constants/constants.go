// Package constants provides shared constants used throughout the gset project
package constants

// Settings file names
const (
	// SettingsFileName is the binary settings file name devices expect
	SettingsFileName = "GARMIN.SET"
	// SettingsJSONName is the default name of the JSON interchange file
	SettingsJSONName = "Garmin-settings.json"
)

// Cache layout
const (
	// CacheDirName is the directory name used under the user cache root
	CacheDirName = "gset"
	// DBFileName is the backup database file name inside the cache directory
	DBFileName = "db.db"
	// LockFileName is the lock file guarding cache mutations
	LockFileName = ".lock"
)

// Environment variables
const (
	// EnvCacheHome overrides the cache directory location when set
	EnvCacheHome = "GSET_HOME"
	// EnvNoColor disables colored output when set to any non-empty value
	EnvNoColor = "NO_COLOR"
)
