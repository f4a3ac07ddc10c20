package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Scan Defaults
	DefaultReportFilePrefix  = "credentials_report_"
	DefaultSecretsFilePrefix = "secrets_report_"
	DefaultCIWorkDir         = "neotrak-jenkins"

	// Secrets Defaults
	DefaultGitleaksBinary  = "gitleaks"
	DefaultMinSecretLength = 10
	DefaultMinPathSegments = 8
	DefaultSecretsNoGit    = true
	DefaultFailOnFindings  = true
	DefaultFailOnCritical  = true

	// Trivy Defaults
	DefaultTrivyBinary       = "trivy"
	DefaultTrivyReportPrefix = "trivy_report_"

	// SBOM Defaults
	DefaultCdxgenCommand   = "cdxgen"
	DefaultSBOMSpecVersion = "1.4"
	DefaultSBOMFileName    = "sbom.json"
	DefaultSBOMDisplayName = "sbom"
	DefaultSBOMBranchName  = "main"
	DefaultNpmBinary       = "npm"

	// Reporting Defaults
	DefaultReportingBaseURL     = "https://dev.neotrak.io/open-pulse/project"
	DefaultReportingTimeoutSecs = 120
	DefaultReportingUserAgent   = "pulsegate/1.0"
)

// Environment variable names read by ApplyEnv.
const (
	EnvConfigPath  = "PULSEGATE_CONFIG_PATH"
	EnvProjectID   = "PROJECT_ID"
	EnvAPIKey      = "X_API_KEY"
	EnvSecretKey   = "X_SECRET_KEY"
	EnvTenantKey   = "X_TENANT_KEY"
	EnvScanDir     = "SCAN_DIR"
	EnvDebugMode   = "DEBUG_MODE"
	EnvAPIBaseURL  = "API_BASE_URL"
	EnvSkipFiles   = "SKIP_FILES"
	EnvDisplayName = "DISPLAY_NAME"
	EnvWorkspaceID = "WORKSPACE_ID"
)

// BranchEnvVars are consulted in order; the first non-empty value names the
// branch attached to SBOM uploads.
var BranchEnvVars = []string{"GITHUB_REF_NAME", "CI_COMMIT_REF_NAME", "BRANCH_NAME"}

// DefaultSkipFiles are base names never reported as findings: manifests and
// lockfiles carry dependency hashes that look like secrets.
var DefaultSkipFiles = []string{
	"package.json",
	"package-lock.json",
	"pom.xml",
	"build.gradle",
	"requirements.txt",
	"README.md",
	".gitignore",
}

// DefaultExcludedDirs are directory names the walker never descends into and
// whose appearance as a path segment drops a finding.
var DefaultExcludedDirs = []string{"node_modules", ".git", DefaultCIWorkDir}

// DefaultReportPrefixes name artifacts left by earlier runs of any pipeline.
var DefaultReportPrefixes = []string{DefaultReportFilePrefix, DefaultSecretsFilePrefix, DefaultTrivyReportPrefix}

// DefaultSBOMExcludedComponents are dependencies of the CI helper tooling
// itself. A component is dropped when its lower-cased name contains any entry.
var DefaultSBOMExcludedComponents = []string{
	"axios",
	"form-data",
	"asynckit",
	"call-bind-apply-helpers",
	"combined-stream",
	"delayed-stream",
	"dunder-proto",
	"es-define-property",
	"es-errors",
	"es-object-atoms",
	"es-set-tostringtag",
	"follow-redirects",
	"function-bind",
	"get-intrinsic",
	"get-proto",
	"gopd",
	"hasown",
	"has-symbols",
	"has-tostringtag",
	"math-intrinsics",
	"mime-types",
	"mime-db",
	"neotrack",
	"proxy-from-env",
}
