package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/danobi/prr/internal/redact"
)

const (
	// FileName is the global config file inside ConfigDir.
	FileName = "config.toml"
	// LocalFileName is the per-checkout config file.
	LocalFileName = ".prr.toml"

	defaultURL = "https://api.github.com"
	defaultTTL = 86400
)

var (
	// ErrNoToken is returned by RequireToken when no token is configured.
	ErrNoToken = errors.New("no GitHub token configured (set prr.token in the config file, PRR_TOKEN or GITHUB_TOKEN)")
	// ErrTildeWorkdir rejects workdirs that rely on shell expansion.
	ErrTildeWorkdir = errors.New("workdir may not use '~' to denote home directory")
)

// Config represents the prr configuration.
type Config struct {
	Token   string      `json:"token"`
	Workdir string      `json:"workdir"`
	URL     string      `json:"url"`
	Editor  string      `json:"editor,omitempty"`
	Cache   CacheConfig `json:"cache"`

	// Repository is the owner/repo bare PR numbers resolve against. Only a
	// .prr.toml sets it.
	Repository string `json:"repository,omitempty"`

	File      string `json:"file,omitempty"`
	LocalFile string `json:"localFile,omitempty"`
}

// CacheConfig controls the GitHub response cache.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// Options controls where Load looks.
type Options struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Path is an explicit config file. It must exist. Empty uses ConfigPath.
	Path string
	// Dir starts the .prr.toml search. Empty uses the working directory.
	Dir string
	// Overrides come from CLI flags, keyed like Set. Empty values are ignored.
	Overrides map[string]string
}

// keys maps user-facing keys to their place in the TOML document.
var keys = map[string]string{
	"token":             "prr.token",
	"workdir":           "prr.workdir",
	"url":               "prr.url",
	"editor":            "prr.editor",
	"cache.enabled":     "cache.enabled",
	"cache.dir":         "cache.dir",
	"cache.ttl_seconds": "cache.ttl_seconds",
}

// Keys returns the settable keys in a stable order.
func Keys() []string {
	return []string{"token", "workdir", "url", "editor", "cache.enabled", "cache.dir", "cache.ttl_seconds"}
}

// ConfigDir returns the platform-appropriate config directory for prr.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the default review workdir.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, "prr"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prr"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prr"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "prr"), nil
	default:
		return filepath.Join(home, fallback, "prr"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load builds the effective config by merging:
// defaults <- file <- .prr.toml <- env <- overrides.
func Load(opts Options) (Config, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	v := newViper(fsys)
	v.SetDefault("prr.url", defaultURL)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", defaultTTL)
	bindEnv(v)

	var cfg Config
	path := opts.Path
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	v.SetConfigFile(path)
	switch err := v.ReadInConfig(); {
	case err == nil:
		cfg.File = path
	case !explicit && notFound(err):
	default:
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := mergeLocal(fsys, v, opts.Dir, &cfg); err != nil {
		return Config{}, err
	}

	for key, value := range opts.Overrides {
		if value == "" {
			continue
		}
		full, ok := keys[key]
		if !ok {
			return Config{}, fmt.Errorf("unknown config key: %s", key)
		}
		v.Set(full, value)
	}

	cfg.Token = v.GetString("prr.token")
	cfg.Workdir = v.GetString("prr.workdir")
	cfg.URL = v.GetString("prr.url")
	cfg.Editor = v.GetString("prr.editor")
	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("cache.enabled"),
		Dir:        v.GetString("cache.dir"),
		TTLSeconds: v.GetInt("cache.ttl_seconds"),
	}

	if cfg.Workdir == "" {
		wd, err := DataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.Workdir = wd
	}
	if strings.HasPrefix(cfg.Workdir, "~") {
		return Config{}, fmt.Errorf("%w: %s", ErrTildeWorkdir, cfg.Workdir)
	}
	return cfg, nil
}

func newViper(fsys afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("toml")
	return v
}

func bindEnv(v *viper.Viper) {
	// PRR_TOKEN wins over GITHUB_TOKEN when both are set.
	_ = v.BindEnv("prr.token", "PRR_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("prr.workdir", "PRR_WORKDIR")
	_ = v.BindEnv("prr.url", "PRR_URL")
	_ = v.BindEnv("prr.editor", "PRR_EDITOR")
}

func notFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// mergeLocal layers the nearest .prr.toml over the config file. It is merged
// as config rather than set as an override so the environment still wins.
func mergeLocal(fsys afero.Fs, v *viper.Viper, dir string, cfg *Config) error {
	path, err := FindLocal(fsys, dir)
	if err != nil || path == "" {
		return err
	}

	lv := newViper(fsys)
	lv.SetConfigFile(path)
	if err := lv.ReadInConfig(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	cfg.LocalFile = path
	cfg.Repository = lv.GetString("local.repository")

	wd := lv.GetString("local.workdir")
	if wd == "" {
		return nil
	}
	if !filepath.IsAbs(wd) && !strings.HasPrefix(wd, "~") {
		wd = filepath.Join(filepath.Dir(path), wd)
	}
	return v.MergeConfigMap(map[string]any{
		"prr": map[string]any{"workdir": wd},
	})
}

// FindLocal returns the nearest .prr.toml at or above dir, or "" if there is
// none.
func FindLocal(fsys afero.Fs, dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, LocalFileName)
		ok, err := afero.Exists(fsys, candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// RequireToken reports ErrNoToken if no token is configured. Only commands
// that talk to GitHub need one.
func (c Config) RequireToken() error {
	if c.Token == "" {
		return ErrNoToken
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.Token = redact.Token(c.Token)
	return c
}

const template = `[prr]
# GitHub personal access token. PRR_TOKEN or GITHUB_TOKEN take precedence.
token = ""

# Directory holding review files. Defaults to $XDG_DATA_HOME/prr.
# workdir = "/home/me/reviews"

# API endpoint, for GitHub Enterprise.
# url = "https://api.github.com"

# Editor for "prr edit". Defaults to $EDITOR.
# editor = "vim"

[cache]
enabled = true
ttl_seconds = 86400
`

// Init writes a starter config file at path. It reports false without
// touching anything if the file already exists.
func Init(fsys afero.Fs, path string) (bool, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, []byte(template), 0o600); err != nil {
		return false, fmt.Errorf("writing config file: %w", err)
	}
	return true, nil
}

// Set updates a single key in the config file at path, creating the file if
// needed. Returns error if key is unknown or the value has the wrong type.
func Set(fsys afero.Fs, path, key, value string) error {
	full, ok := keys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	v := newViper(fsys)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !notFound(err) {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	v.Set(full, typed)

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func parseValue(key, value string) (any, error) {
	switch key {
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false: %w", key, err)
		}
		return b, nil
	case "cache.ttl_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	case "workdir":
		if strings.HasPrefix(value, "~") {
			return nil, ErrTildeWorkdir
		}
	}
	return value, nil
}
