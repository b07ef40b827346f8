// Package backup stores timestamped copies of settings files with database management
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/gsettools/gset/pkg/constants"
	"github.com/gsettools/gset/pkg/interfaces"
)

// Entry is one recorded backup of a settings file
type Entry struct {
	Created time.Time
	Source  string
	Path    string
}

// Manager handles backup storage and database management
type Manager struct {
	db       *sql.DB
	cacheDir string
	dbPath   string
}

// CacheDir returns the backup cache directory: $GSET_HOME when set, otherwise
// the gset directory under the user cache root
func CacheDir() (string, error) {
	if dir := os.Getenv(constants.EnvCacheHome); dir != "" {
		return dir, nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(base, constants.CacheDirName), nil
}

// Open creates a manager rooted at the default cache directory
func Open() (*Manager, error) {
	dir, err := CacheDir()
	if err != nil {
		return nil, err
	}
	return NewManager(dir)
}

// NewManager creates a new backup manager rooted at cacheDir
func NewManager(cacheDir string) (*Manager, error) {
	// Ensure cache directory exists
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Create an empty .lock file if it doesn't exist (used for file-based locking)
	lockPath := filepath.Join(cacheDir, constants.LockFileName)
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		// Create empty file for locking purposes
		if err := os.WriteFile(lockPath, []byte{}, 0o600); err != nil {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}
	}

	// Initialize SQLite database
	dbPath := filepath.Join(cacheDir, constants.DBFileName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup database: %w", err)
	}

	// Create tables if they don't exist
	if err := initDatabase(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close database: %v\n", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Manager{
		db:       db,
		cacheDir: cacheDir,
		dbPath:   dbPath,
	}, nil
}

// Save copies the settings file at sourcePath into the cache and records the
// backup in the database
func (m *Manager) Save(sourcePath string) (Entry, error) {
	normalized, err := m.normalizePath(sourcePath)
	if err != nil {
		return Entry{}, err
	}

	data, err := os.ReadFile(normalized) // #nosec G304 -- backing up a user-named file
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read settings file %s: %w", sourcePath, err)
	}

	backupFile, err := os.CreateTemp(m.cacheDir, "bak")
	if err != nil {
		return Entry{}, fmt.Errorf("failed to create backup file: %w", err)
	}
	if _, err := backupFile.Write(data); err != nil {
		_ = backupFile.Close() //nolint:errcheck // Best effort close, write error is more important
		return Entry{}, fmt.Errorf("failed to write backup file: %w", err)
	}
	if err := backupFile.Close(); err != nil {
		return Entry{}, fmt.Errorf("failed to close backup file: %w", err)
	}

	entry := Entry{
		Source:  normalized,
		Path:    backupFile.Name(),
		Created: time.Now(),
	}
	_, err = m.db.ExecContext(
		context.Background(),
		"INSERT OR REPLACE INTO backups (source, created, path) VALUES (?, ?, ?)",
		entry.Source, entry.Created.UnixNano(), entry.Path,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record backup: %w", err)
	}

	if err := m.MarkSourceUsed(normalized); err != nil {
		fmt.Printf("⚠️  Warning: failed to record settings source: %v\n", err)
	}

	return entry, nil
}

// List returns the backups recorded for sourcePath, newest first. Records
// whose backup file has disappeared are dropped from the database.
func (m *Manager) List(sourcePath string) ([]Entry, error) {
	normalized, err := m.normalizePath(sourcePath)
	if err != nil {
		return nil, err
	}

	all, err := m.selectBackups("SELECT source, created, path FROM backups WHERE source = ? ORDER BY created DESC", normalized)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, entry := range all {
		// Verify the backup file still exists
		if _, statErr := os.Stat(entry.Path); statErr == nil {
			entries = append(entries, entry)
			continue
		}

		// Database entry exists but the backup file doesn't, remove stale entry
		if deleteErr := m.deleteBackup(entry); deleteErr != nil {
			fmt.Printf("⚠️  Warning: failed to remove stale entry: %v\n", deleteErr)
		}
	}

	return entries, nil
}

// Latest returns the most recent backup recorded for sourcePath
func (m *Manager) Latest(sourcePath string) (Entry, error) {
	entries, err := m.List(sourcePath)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("no backups recorded for %s", sourcePath)
	}
	return entries[0], nil
}

// Restore writes the most recent backup of sourcePath back over it and
// returns the entry that was restored
func (m *Manager) Restore(sourcePath string) (Entry, error) {
	entry, err := m.Latest(sourcePath)
	if err != nil {
		return Entry{}, err
	}

	data, err := os.ReadFile(entry.Path) // #nosec G304 -- path comes from our own database
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read backup %s: %w", entry.Path, err)
	}
	if err := os.WriteFile(entry.Source, data, 0o600); err != nil {
		return Entry{}, fmt.Errorf("failed to restore %s: %w", sourcePath, err)
	}

	return entry, nil
}

// MarkSourceUsed records a settings file in the sources table
func (m *Manager) MarkSourceUsed(sourcePath string) error {
	// Normalize the path to resolve symlinks
	normalizedPath, err := m.normalizePath(sourcePath)
	if err != nil {
		return err
	}

	// Don't record settings files that do not exist
	if _, statErr := os.Stat(normalizedPath); os.IsNotExist(statErr) {
		return nil
	}

	// Insert or ignore if already exists
	_, err = m.db.ExecContext(context.Background(), "INSERT OR IGNORE INTO sources VALUES (?)", normalizedPath)
	return err
}

// GC removes backups whose settings file no longer exists and trims every
// remaining source to its retain most recent backups. It returns the number
// of backups removed.
func (m *Manager) GC(retain int) (int, error) {
	backups, err := m.selectBackups("SELECT source, created, path FROM backups ORDER BY created DESC")
	if err != nil {
		return 0, err
	}

	removed := 0
	perSource := make(map[string]int)
	for _, entry := range backups {
		if _, statErr := os.Stat(entry.Source); os.IsNotExist(statErr) {
			if removeErr := m.removeBackup(entry); removeErr == nil {
				removed++
			}
			continue
		}

		perSource[entry.Source]++
		if perSource[entry.Source] > retain {
			if removeErr := m.removeBackup(entry); removeErr == nil {
				removed++
			}
		}
	}

	if err := m.cleanupDeadSources(); err != nil {
		return removed, err
	}

	return removed, nil
}

// Clean removes every stored backup
func (m *Manager) Clean() error {
	return m.CleanWithTimeout(30 * time.Second)
}

// CleanWithTimeout removes every stored backup using file-based locking
func (m *Manager) CleanWithTimeout(timeout time.Duration) error {
	lock := NewFileLock(m.cacheDir)
	return lock.WithLockTimeout(timeout, func() error {
		return m.removeAllBackupFiles()
	})
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// GetCacheDir returns the cache directory
func (m *Manager) GetCacheDir() string {
	return m.cacheDir
}

// GetDBPath returns the database path
func (m *Manager) GetDBPath() string {
	return m.dbPath
}

// normalizePath normalizes a path by resolving symlinks
func (m *Manager) normalizePath(path string) (string, error) {
	// Get absolute path first
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Resolve symlinks to get the real path
	// This ensures /tmp/... becomes /private/tmp/... on macOS
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// If symlink resolution fails, fall back to absolute path
		// This is intentional fallback behavior, not an error
		return absPath, nil //nolint:nilerr // Intentional fallback on symlink resolution failure
	}

	return realPath, nil
}

// selectBackups runs a query returning (source, created, path) rows
func (m *Manager) selectBackups(query string, args ...any) ([]Entry, error) {
	rows, err := m.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close database rows: %v\n", closeErr)
		}
	}()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var created int64
		if err := rows.Scan(&entry.Source, &created, &entry.Path); err != nil {
			return nil, err
		}
		entry.Created = time.Unix(0, created)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// removeBackup deletes a backup file and its database record
func (m *Manager) removeBackup(entry Entry) error {
	if err := os.Remove(entry.Path); err != nil && !os.IsNotExist(err) {
		fmt.Printf("⚠️  Warning: failed to remove backup file %s: %v\n", entry.Path, err)
	}
	return m.deleteBackup(entry)
}

// deleteBackup removes a backup record from the database
func (m *Manager) deleteBackup(entry Entry) error {
	_, err := m.db.ExecContext(
		context.Background(),
		"DELETE FROM backups WHERE source = ? AND created = ?",
		entry.Source, entry.Created.UnixNano(),
	)
	return err
}

// cleanupDeadSources drops source records whose settings file and backups are gone
func (m *Manager) cleanupDeadSources() error {
	rows, err := m.db.QueryContext(context.Background(), "SELECT path FROM sources")
	if err != nil {
		return fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			fmt.Printf("⚠️  Warning: failed to close database rows: %v\n", closeErr)
		}
	}()

	var dead []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return err
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			dead = append(dead, path)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, path := range dead {
		if _, err := m.db.ExecContext(context.Background(), "DELETE FROM sources WHERE path = ?", path); err != nil {
			return fmt.Errorf("failed to delete source record: %w", err)
		}
	}
	return nil
}

// removeAllBackupFiles removes all bak* files from the cache and clears the tables
func (m *Manager) removeAllBackupFiles() error {
	entries, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "bak") {
			backupPath := filepath.Join(m.cacheDir, entry.Name())
			if err := os.Remove(backupPath); err != nil {
				return fmt.Errorf("failed to remove backup %s: %w", backupPath, err)
			}
		}
	}

	if _, err := m.db.ExecContext(context.Background(), "DELETE FROM backups"); err != nil {
		return fmt.Errorf("failed to clear backup records: %w", err)
	}
	if _, err := m.db.ExecContext(context.Background(), "DELETE FROM sources"); err != nil {
		return fmt.Errorf("failed to clear source records: %w", err)
	}
	return nil
}

// initDatabase creates the necessary tables if they don't exist
func initDatabase(db *sql.DB) error {
	createBackupsTable := `
	CREATE TABLE IF NOT EXISTS backups (
		source TEXT,
		created INTEGER,
		path TEXT,
		PRIMARY KEY (source, created)
	);`

	createSourcesTable := `
	CREATE TABLE IF NOT EXISTS sources (
		path TEXT NOT NULL,
		PRIMARY KEY (path)
	);`

	if _, err := db.ExecContext(context.Background(), createBackupsTable); err != nil {
		return fmt.Errorf("failed to create backups table: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), createSourcesTable); err != nil {
		return fmt.Errorf("failed to create sources table: %w", err)
	}

	return nil
}

// Ensure Manager implements the BackupManager interface
var _ interfaces.BackupManager = (*Manager)(nil)
