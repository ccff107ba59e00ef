// Package config loads process settings from an optional YAML file with
// LEAGUESTORE_* environment overrides.
//
//	LEAGUESTORE_STORAGE_DRIVER: fs|memory|s3|sqlite|postgres (default fs)
//	LEAGUESTORE_FS_ROOT: directory holding the CSV files (default ./dane)
//	LEAGUESTORE_SQLITE_PATH: sqlite file when driver=sqlite
//	LEAGUESTORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	LEAGUESTORE_S3_BUCKET, LEAGUESTORE_S3_REGION, LEAGUESTORE_S3_ENDPOINT, LEAGUESTORE_S3_PREFIX
//	LEAGUESTORE_WRITER_LOCK: serialize writes per entity (true|false)
//	LEAGUESTORE_HTTP_ADDR, LEAGUESTORE_RPC_ADDR
//	LEAGUESTORE_LOG_LEVEL, LEAGUESTORE_LOG_DEVELOPMENT
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"leaguestore/internal/blob"
	"leaguestore/internal/core"
)

// Config is the complete process configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Files   Files   `yaml:"files"`
	HTTP    Listen  `yaml:"http"`
	RPC     Listen  `yaml:"rpc"`
	Log     Log     `yaml:"log"`
	Query   Query   `yaml:"query"`
}

// Storage selects the blob driver backing the entity files.
type Storage struct {
	Driver      blob.Driver   `yaml:"driver"`
	FSRoot      string        `yaml:"fs_root"`
	SQLitePath  string        `yaml:"sqlite_path"`
	PostgresDSN string        `yaml:"postgres_dsn"`
	S3          blob.S3Config `yaml:"s3"`
	WriterLock  bool          `yaml:"writer_lock"`
}

// Files names the object key of each entity.
type Files struct {
	Teams   string `yaml:"teams"`
	Players string `yaml:"players"`
	Games   string `yaml:"games"`
}

// Listen holds a network listen address.
type Listen struct {
	Addr string `yaml:"addr"`
}

// Log configures the process logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Query holds query engine defaults.
type Query struct {
	DefaultLimit int `yaml:"default_limit"`
}

// Default returns the configuration used when no file or environment
// variable says otherwise.
func Default() Config {
	keys := core.DefaultKeys()
	return Config{
		Storage: Storage{Driver: blob.DriverFilesystem, FSRoot: "./dane"},
		Files:   Files{Teams: keys.Teams, Players: keys.Players, Games: keys.Games},
		HTTP:    Listen{Addr: ":3000"},
		RPC:     Listen{Addr: ":50051"},
		Log:     Log{Level: "info"},
		Query:   Query{DefaultLimit: 10},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that layer further overrides
// before calling Validate themselves.
func Read(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup("LEAGUESTORE_" + name); ok {
			*dst = v
		}
	}
	var errs error
	boolean := func(name string, dst *bool) {
		if v, ok := lookup("LEAGUESTORE_" + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("LEAGUESTORE_%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	if v, ok := lookup("LEAGUESTORE_STORAGE_DRIVER"); ok {
		c.Storage.Driver = blob.Driver(v)
	}
	str("FS_ROOT", &c.Storage.FSRoot)
	str("SQLITE_PATH", &c.Storage.SQLitePath)
	str("POSTGRES_DSN", &c.Storage.PostgresDSN)
	str("S3_BUCKET", &c.Storage.S3.Bucket)
	str("S3_REGION", &c.Storage.S3.Region)
	str("S3_ENDPOINT", &c.Storage.S3.Endpoint)
	str("S3_PREFIX", &c.Storage.S3.Prefix)
	boolean("S3_PATH_STYLE", &c.Storage.S3.PathStyle)
	boolean("WRITER_LOCK", &c.Storage.WriterLock)
	str("TEAMS_FILE", &c.Files.Teams)
	str("PLAYERS_FILE", &c.Files.Players)
	str("GAMES_FILE", &c.Files.Games)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("RPC_ADDR", &c.RPC.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	boolean("LOG_DEVELOPMENT", &c.Log.Development)
	if v, ok := lookup("LEAGUESTORE_DEFAULT_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("LEAGUESTORE_DEFAULT_LIMIT: %w", err))
		} else {
			c.Query.DefaultLimit = n
		}
	}
	return errs
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs error
	switch c.Storage.Driver {
	case blob.DriverFilesystem, blob.DriverMemory, blob.DriverSQLite:
	case blob.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = multierr.Append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	case blob.DriverS3:
		if c.Storage.S3.Bucket == "" {
			errs = multierr.Append(errs, errors.New("storage.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Files.Teams == "" || c.Files.Players == "" || c.Files.Games == "" {
		errs = multierr.Append(errs, errors.New("files: every entity needs an object key"))
	}
	if c.Query.DefaultLimit <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("query.default_limit must be positive, got %d", c.Query.DefaultLimit))
	}
	return errs
}

// BlobOptions converts the storage section for blob.Open.
func (c Config) BlobOptions() blob.Options {
	return blob.Options{
		Driver:      c.Storage.Driver,
		FSRoot:      c.Storage.FSRoot,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		S3:          c.Storage.S3,
	}
}

// ServiceOptions converts the file, storage and query sections into
// core.Service options.
func (c Config) ServiceOptions() []core.Option {
	opts := []core.Option{
		core.WithKeys(core.Keys{Teams: c.Files.Teams, Players: c.Files.Players, Games: c.Files.Games}),
		core.WithDefaultLimit(c.Query.DefaultLimit),
	}
	if c.Storage.WriterLock {
		opts = append(opts, core.WithWriterLock())
	}
	return opts
}
