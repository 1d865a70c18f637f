package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/pinbox/pinbox/internal/appdir"
)

var (
	// ErrReadFile is returned when the config file cannot be read.
	ErrReadFile = errors.New("failed to read file")

	// ErrWriteFile is returned when the config file cannot be written.
	ErrWriteFile = errors.New("failed to write file")

	// ErrDecode is returned when the config file is not valid TOML or
	// holds invalid values.
	ErrDecode = errors.New("failed to deserialize file")

	// ErrEncode is returned when the config cannot be serialized.
	ErrEncode = errors.New("failed to serialize config")
)

// Store loads and saves Config at <config dir>/pinbox/config.toml.
type Store struct {
	dirs   *appdir.Dirs
	logger *zap.Logger
}

// NewStore creates a Store. A nil logger disables logging.
func NewStore(dirs *appdir.Dirs, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dirs:   dirs,
		logger: logger.Named("config"),
	}
}

// Path returns the config file location, creating its directory.
func (s *Store) Path() (string, error) {
	return s.dirs.ConfigFile()
}

// Load reads and decodes the config file. A missing file is an error
// wrapping fs.ErrNotExist.
func (s *Store) Load() (*Config, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}
	return loadFile(path)
}

// LoadOptional behaves like Load but treats a missing file as an empty
// Config.
func (s *Store) LoadOptional() (*Config, error) {
	cfg, err := s.Load()
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("config file not found, using defaults")
		return &Config{}, nil
	}
	return cfg, err
}

// Save encodes cfg and writes it to the config file.
func (s *Store) Save(cfg *Config) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	data, err := Encode(cfg)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrEncode, path, err)
	}

	// The file may hold a token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteFile, path, err)
	}

	s.logger.Debug("config saved", zap.String("path", path))
	return nil
}

// SetKey updates a single setting and persists the result.
//
// An unreadable or corrupt config file never blocks a write: it is logged
// and replaced by defaults before key is applied.
func (s *Store) SetKey(key, value string) error {
	cfg, err := s.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("config file not found, starting from defaults")
		} else {
			s.logger.Warn("ignoring unreadable config, starting from defaults", zap.Error(err))
		}
		cfg = &Config{}
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	return s.Save(cfg)
}

// Encode serializes cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadFile, path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return &cfg, nil
}
