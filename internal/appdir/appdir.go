// Package appdir resolves the on-disk locations used by pinbox.
//
// Everything lives below an application directory inside the user's
// configuration directory:
//
//	<config dir>/pinbox/config.toml       application settings
//	<config dir>/pinbox/pinbox-notes/     git working copy
//	<config dir>/pinbox/pinbox-notes.lock clone lock
//	<config dir>/pinbox/pinbox.log        rotating log file
//
// The base directory is supplied by a BaseDirFunc so tests never touch the
// real user configuration.
package appdir

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// AppName names the application directory.
	AppName = "pinbox"

	// ConfigFileName is the application settings file.
	ConfigFileName = "config.toml"

	// NotesDirName is the git working copy directory.
	NotesDirName = "pinbox-notes"

	// LogFileName is the rotating log file.
	LogFileName = "pinbox.log"
)

var (
	// ErrConfigDirNotFound is returned when the base configuration
	// directory cannot be determined.
	ErrConfigDirNotFound = errors.New("config dir not found")

	// ErrCreateDir is returned when a directory cannot be created.
	ErrCreateDir = errors.New("failed to create dirs")
)

// BaseDirFunc returns the directory the application directory lives in.
type BaseDirFunc func() (string, error)

// UserConfigDir is the default BaseDirFunc.
func UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Fixed returns a BaseDirFunc that always yields dir.
func Fixed(dir string) BaseDirFunc {
	return func() (string, error) {
		return dir, nil
	}
}

// Dirs resolves pinbox paths relative to a base directory.
type Dirs struct {
	base BaseDirFunc
}

// New creates a Dirs. A nil base falls back to UserConfigDir.
func New(base BaseDirFunc) *Dirs {
	if base == nil {
		base = UserConfigDir
	}
	return &Dirs{base: base}
}

// AppDir returns <base>/pinbox, creating it if needed.
func (d *Dirs) AppDir() (string, error) {
	base, err := d.base()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfigDirNotFound, err)
	}
	if base == "" {
		return "", ErrConfigDirNotFound
	}

	dir := filepath.Join(base, AppName)
	if err := ensureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigFile returns the application settings path. The parent directory
// is created; the file itself is not.
func (d *Dirs) ConfigFile() (string, error) {
	dir, err := d.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// RepoDir returns the working copy directory, creating it and its parents.
func (d *Dirs) RepoDir() (string, error) {
	dir, err := d.AppDir()
	if err != nil {
		return "", err
	}

	repoDir := filepath.Join(dir, NotesDirName)
	if err := ensureDir(repoDir); err != nil {
		return "", err
	}
	return repoDir, nil
}

// LockFile returns the path of the lock guarding the working copy.
func (d *Dirs) LockFile() (string, error) {
	dir, err := d.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, NotesDirName+".lock"), nil
}

// LogFile returns the path of the rotating log file.
func (d *Dirs) LogFile() (string, error) {
	dir, err := d.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// IsEmptyDir reports whether dir has no entries.
func IsEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	names, err := f.Readdirnames(1)
	if len(names) > 0 {
		return false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return true, nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrCreateDir, dir, err)
	}
	return nil
}
