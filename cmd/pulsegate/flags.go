package main

import (
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/spf13/cobra"
)

// AppFlags are the persistent command-line overrides. They win over the
// config file and the environment.
type AppFlags struct {
	ConfigFile string
	ScanDir    string
	LogLevel   string
	LogFormat  string
}

func (f *AppFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.ConfigFile, "config", "c", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	pf.StringVarP(&f.ScanDir, "scan-dir", "d", "", "Directory to scan (overrides SCAN_DIR, defaults to the working directory)")
	pf.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.LogFormat, "log-format", "", "Log format (console, json, text)")
}

// apply copies every set flag into cfg.
func (f *AppFlags) apply(cfg *config.GlobalConfig) {
	if f.ScanDir != "" {
		cfg.ScanConfig.ScanDir = f.ScanDir
	}
	if f.LogLevel != "" {
		cfg.LogConfig.LogLevel = f.LogLevel
	}
	if f.LogFormat != "" {
		cfg.LogConfig.LogFormat = f.LogFormat
	}
}
