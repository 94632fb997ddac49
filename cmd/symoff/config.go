package main

import (
	"flag"

	"github.com/didi/symoff/internal/log"

	"github.com/spf13/viper"
)

// Config is the merged view of the config file and the command line.
type Config struct {
	Log         log.Config
	Lock        bool
	Demangle    bool
	FileOffset  bool
	Concurrency int
}

// flagKeys maps command line flags to the config keys they override.
var flagKeys = map[string]string{
	"lock":        "resolve.lock",
	"demangle":    "resolve.demangle",
	"file-offset": "resolve.file_offset",
	"concurrency": "resolve.concurrency",
	"log-level":   "log.level",
}

func initViper(v *viper.Viper, configFile string) error {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file_prefix", "symoff")
	v.SetDefault("log.auto_clear", true)
	v.SetDefault("log.clear_hours", 24)
	v.SetDefault("resolve.concurrency", 4)

	if configFile == "" {
		return nil
	}
	v.SetConfigFile(configFile)
	return v.ReadInConfig()
}

// loadConfig reads configFile, if any, then applies the flags that were set
// explicitly on fs.
func loadConfig(configFile string, fs *flag.FlagSet) (*Config, error) {
	v := viper.New()
	err := initViper(v, configFile)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	return &Config{
		Log: log.Config{
			LogDir:     v.GetString("log.dir"),
			LogPrefix:  v.GetString("log.file_prefix"),
			LogLevel:   v.GetString("log.level"),
			AutoClear:  v.GetBool("log.auto_clear"),
			ClearHours: v.GetInt("log.clear_hours"),
		},
		Lock:        v.GetBool("resolve.lock"),
		Demangle:    v.GetBool("resolve.demangle"),
		FileOffset:  v.GetBool("resolve.file_offset"),
		Concurrency: v.GetInt("resolve.concurrency"),
	}, nil
}
