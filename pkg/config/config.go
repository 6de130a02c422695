// Package config loads the kiosk's local settings from .kiosk.yaml, the
// environment and command line flags.
package config

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Each one is also a KIOSK_ environment variable and, where a
// command defines it, a flag of the same name.
const (
	KeyServer   = "server"
	KeyPassword = "password"
	KeyCache    = "cache"
	KeyLog      = "log"
	KeyLogLevel = "loglevel"
	KeyStatus   = "status"
	KeyFPS      = "fps"
)

// Defaults.
const (
	DefaultServer   = "http://localhost:8000"
	DefaultCache    = "~/.kiosk/media"
	DefaultLog      = "~/.kiosk/kiosk.log"
	DefaultLogLevel = "info"
	DefaultFPS      = 30
)

// PathEnv overrides the directory searched for .kiosk.yaml.
const PathEnv = "KIOSK_CONFIG_PATH"

type Config interface {
	Server() string
	Password() string
	CacheDir() string
	LogFile() string
	LogLevel() string
	StatusAddr() string
	FPS() int
	// File is the config file that was read, or "".
	File() string
}

// Load resolves the settings. Flags that were set on the command line win
// over the environment, which wins over the file.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault(KeyServer, DefaultServer)
	v.SetDefault(KeyCache, DefaultCache)
	v.SetDefault(KeyLog, DefaultLog)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyFPS, DefaultFPS)
	v.SetConfigName(".kiosk") // .yaml is implicit
	v.SetEnvPrefix("KIOSK")
	v.AutomaticEnv()

	if override := os.Getenv(PathEnv); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		for _, key := range []string{KeyServer, KeyPassword, KeyCache, KeyLog, KeyLogLevel, KeyStatus, KeyFPS} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cache, err := homedir.Expand(v.GetString(KeyCache))
	if err != nil {
		return nil, fmt.Errorf("cache path: %w", err)
	}
	logFile, err := homedir.Expand(v.GetString(KeyLog))
	if err != nil {
		return nil, fmt.Errorf("log path: %w", err)
	}

	return &fileConfig{
		ServerURL: v.GetString(KeyServer),
		Secret:    v.GetString(KeyPassword),
		Cache:     cache,
		Log:       logFile,
		Level:     v.GetString(KeyLogLevel),
		Status:    v.GetString(KeyStatus),
		Frames:    v.GetInt(KeyFPS),
		Path:      v.ConfigFileUsed(),
	}, nil
}

type fileConfig struct {
	ServerURL string `json:"server"`
	Secret    string `json:"-"`
	Cache     string `json:"cache"`
	Log       string `json:"log"`
	Level     string `json:"loglevel"`
	Status    string `json:"status"`
	Frames    int    `json:"fps"`
	Path      string `json:"file"`
}

func (f *fileConfig) Server() string     { return f.ServerURL }
func (f *fileConfig) Password() string   { return f.Secret }
func (f *fileConfig) CacheDir() string   { return f.Cache }
func (f *fileConfig) LogFile() string    { return f.Log }
func (f *fileConfig) LogLevel() string   { return f.Level }
func (f *fileConfig) StatusAddr() string { return f.Status }
func (f *fileConfig) FPS() int           { return f.Frames }
func (f *fileConfig) File() string       { return f.Path }
