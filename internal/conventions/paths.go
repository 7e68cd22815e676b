package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default sbxmon data directory name (relative to home).
	DefaultDataDir = ".sbxmon"

	// DBFile is the filename of the SQLite detail cache.
	DBFile = "sbxmon.db"
	// PrefsFile is the filename of the preferences file.
	PrefsFile = "prefs.yaml"
)

// DataDir returns the sbxmon data directory under a home directory.
func DataDir(home string) string {
	return filepath.Join(home, DefaultDataDir)
}

// DBPath returns the default path of the SQLite detail cache.
func DBPath(home string) string {
	return filepath.Join(DataDir(home), DBFile)
}

// PrefsPath returns the default path of the preferences file.
func PrefsPath(home string) string {
	return filepath.Join(DataDir(home), PrefsFile)
}
