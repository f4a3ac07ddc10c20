package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays process environment values onto cfg. Only variables that
// are set and non-empty override the file or default value.
func ApplyEnv(cfg *GlobalConfig, lookup LookupFunc) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			return ""
		}
		return strings.TrimSpace(v)
	}

	rc := &cfg.ReportingConfig
	setIfPresent(&rc.ProjectID, get(EnvProjectID))
	setIfPresent(&rc.WorkspaceID, get(EnvWorkspaceID))
	setIfPresent(&rc.APIKey, get(EnvAPIKey))
	setIfPresent(&rc.SecretKey, get(EnvSecretKey))
	setIfPresent(&rc.TenantKey, get(EnvTenantKey))
	if base := get(EnvAPIBaseURL); base != "" {
		rc.BaseURL = strings.TrimRight(base, "/")
	}

	setIfPresent(&cfg.ScanConfig.ScanDir, get(EnvScanDir))

	if debug, err := strconv.ParseBool(get(EnvDebugMode)); err == nil && debug {
		cfg.LogConfig.LogLevel = "debug"
	}

	for _, name := range strings.Split(get(EnvSkipFiles), ",") {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(cfg.ScanConfig.SkipFiles, name) {
			cfg.ScanConfig.SkipFiles = append(cfg.ScanConfig.SkipFiles, name)
		}
	}

	setIfPresent(&cfg.SBOMConfig.DisplayName, get(EnvDisplayName))
	for _, key := range BranchEnvVars {
		if branch := get(key); branch != "" {
			cfg.SBOMConfig.BranchName = branch
			break
		}
	}
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
