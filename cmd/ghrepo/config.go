package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

const (
	SourceGitHub = "github"
	SourceLocal  = "local"
)

// Formats are the default templates of each subcommand.
type Formats struct {
	Ls    string `toml:"ls"`
	Get   string `toml:"get"`
	Tree  string `toml:"tree"`
	Cfile string `toml:"cfile"`
}

// FileConfig is the TOML config file.
type FileConfig struct {
	Source     string  `toml:"source"`
	User       string  `toml:"user"`
	Token      string  `toml:"token"`
	BaseURL    string  `toml:"base_url"`
	ArchiveURL string  `toml:"archive_url"`
	CacheDB    string  `toml:"cache_db"`
	CacheSize  int     `toml:"cache_size"`
	Color      *bool   `toml:"color"`
	Formats    Formats `toml:"formats"`
}

// Settings is the resolved configuration.
// Precedence: flags > environment > config file > ~/.gitconfig > defaults.
type Settings struct {
	Source     string
	Local      string // repository directory for the local source
	Repo       string
	User       string
	Token      string
	BaseURL    string
	ArchiveURL string
	CacheDB    string
	CacheSize  int
	Color      bool
	Formats    Formats
}

func defaultSettings() Settings {
	return Settings{
		Source: SourceGitHub,
		Color:  true,
		Formats: Formats{
			Ls:    "%h %d %t\n%M",
			Get:   "%r-%d_%t_%h",
			Tree:  "%r-%d_%t_%h",
			Cfile: "%r-%d_%t_%h",
		},
	}
}

// Env looks up an environment variable.
type Env func(key string) string

// configPath returns the config file to read and whether it must exist.
func configPath(args Args, env Env, home string) (string, bool) {
	if args.Config != "" {
		return args.Config, true
	}
	if xdg := env("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ghrepo", "config.toml"), false
	}
	return filepath.Join(home, ".config", "ghrepo", "config.toml"), false
}

// readGitConfigUser reads [github] user from a git config file.
func readGitConfigUser(path string) string {
	cfg, err := ini.Load(path)
	if err != nil {
		return ""
	}
	return cfg.Section("github").Key("user").String()
}

func readConfigFile(path string, required bool) (*FileConfig, error) {
	var fc FileConfig
	_, err := toml.DecodeFile(path, &fc)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return &fc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return &fc, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// LoadSettings resolves the settings for args.
func LoadSettings(args Args, env Env, home string) (*Settings, error) {
	s := defaultSettings()

	if home != "" {
		override(&s.User, readGitConfigUser(filepath.Join(home, ".gitconfig")))
	}

	path, required := configPath(args, env, home)
	fc, err := readConfigFile(path, required)
	if err != nil {
		return nil, err
	}
	override(&s.Source, fc.Source)
	override(&s.User, fc.User)
	override(&s.Token, fc.Token)
	override(&s.BaseURL, fc.BaseURL)
	override(&s.ArchiveURL, fc.ArchiveURL)
	override(&s.CacheDB, fc.CacheDB)
	if fc.CacheSize > 0 {
		s.CacheSize = fc.CacheSize
	}
	if fc.Color != nil {
		s.Color = *fc.Color
	}
	override(&s.Formats.Ls, fc.Formats.Ls)
	override(&s.Formats.Get, fc.Formats.Get)
	override(&s.Formats.Tree, fc.Formats.Tree)
	override(&s.Formats.Cfile, fc.Formats.Cfile)

	override(&s.Token, env("GITHUB_TOKEN"))
	override(&s.Token, env("GHREPO_TOKEN"))
	override(&s.User, env("GHREPO_USER"))

	override(&s.User, args.User)
	override(&s.Token, args.Token)
	override(&s.Repo, args.Repo)
	override(&s.CacheDB, args.CacheDB)
	if args.Local != "" {
		s.Source = SourceLocal
		s.Local = args.Local
	}
	if args.NoColor {
		s.Color = false
	}

	switch s.Source {
	case SourceLocal:
		if s.Local == "" {
			s.Local = "."
		}
	case SourceGitHub:
	default:
		return nil, fmt.Errorf("unknown source %q, use %q or %q", s.Source, SourceGitHub, SourceLocal)
	}
	return &s, nil
}

func osEnv(key string) string { return os.Getenv(key) }
