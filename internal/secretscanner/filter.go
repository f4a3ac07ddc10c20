package secretscanner

import (
	"path/filepath"
	"strings"

	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/rs/zerolog"
	regexp "github.com/wasilibs/go-re2"
)

// Drop reasons reported by Filter.Reason.
const (
	ReasonEmptyFile   = "empty file"
	ReasonSkipRule    = "skip rule"
	ReasonExcludedDir = "excluded directory"
	ReasonPlaceholder = "placeholder"
)

var (
	variableRefPattern = regexp.MustCompile(`^(\$\{[A-Z_][A-Z0-9_]*\}|\$[A-Z_][A-Z0-9_]*)$`)
	bareTokenPattern   = regexp.MustCompile(`^[A-Z_]+$`)
	quotedValuePattern = regexp.MustCompile("[\"'`]([^\"'`]*)[\"'`]")
	assignedValue      = regexp.MustCompile(`[=:]\s*([^\s"'` + "`" + `]+)\s*$`)
)

// fixedFormatRules match literal token formats, so an all-caps match is a
// real credential and never a bare placeholder name.
var fixedFormatRules = map[string]struct{}{
	RuleAWSKey:         {},
	RuleGitHubToken:    {},
	RuleJWT:            {},
	RuleFirebaseAPIKey: {},
}

// placeholderValues returns match itself followed by the value it assigns:
// the last quoted string, or the unquoted text after = or :.
func placeholderValues(match string) []string {
	values := []string{match}
	if quoted := quotedValuePattern.FindAllStringSubmatch(match, -1); len(quoted) > 0 {
		values = append(values, quoted[len(quoted)-1][1])
	} else if m := assignedValue.FindStringSubmatch(match); m != nil {
		values = append(values, m[1])
	}

	out := values[:0]
	for _, v := range values {
		if v = strings.Trim(strings.TrimSpace(v), "\"'`"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsPlaceholder reports whether match, or a value assigned inside it, is an
// unresolved variable reference such as ${API_KEY} or $API_KEY.
func IsPlaceholder(match string) bool {
	for _, v := range placeholderValues(match) {
		if variableRefPattern.MatchString(v) {
			return true
		}
	}
	return false
}

// isPlaceholderFinding also treats a bare upper-case name such as API_KEY as
// a placeholder, except for rules whose format is fixed.
func isPlaceholderFinding(f models.SecretFinding) bool {
	if IsPlaceholder(f.Match) || IsPlaceholder(f.Secret) {
		return true
	}
	if _, fixed := fixedFormatRules[f.RuleID]; fixed {
		return false
	}
	for _, v := range append(placeholderValues(f.Match), placeholderValues(f.Secret)...) {
		if bareTokenPattern.MatchString(v) {
			return true
		}
	}
	return false
}

// Filter removes findings that are noise.
type Filter struct {
	root         string
	skip         *SkipRules
	excludedDirs map[string]struct{}
	logger       zerolog.Logger
}

// NewFilter creates a Filter. excludedDirs are matched as whole segments of
// the path below root, so a root that itself sits in an excluded directory
// keeps its findings.
func NewFilter(root string, skip *SkipRules, excludedDirs []string, logger zerolog.Logger) *Filter {
	dirs := make(map[string]struct{}, len(excludedDirs))
	for _, d := range excludedDirs {
		dirs[d] = struct{}{}
	}
	return &Filter{
		root:         root,
		skip:         skip,
		excludedDirs: dirs,
		logger:       logger.With().Str("module", "FindingFilter").Logger(),
	}
}

// relative strips the scan root from path. Paths outside the root, and paths
// that are already relative, are returned unchanged.
func (flt *Filter) relative(path string) string {
	if flt.root == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(flt.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Reason returns why f would be dropped, or "" when it is kept.
func (flt *Filter) Reason(f models.SecretFinding) string {
	if strings.TrimSpace(f.File) == "" {
		return ReasonEmptyFile
	}
	if _, skipped := flt.skip.Match(f.File); skipped {
		return ReasonSkipRule
	}
	for _, seg := range strings.Split(strings.ReplaceAll(flt.relative(f.File), `\`, "/"), "/") {
		if _, ok := flt.excludedDirs[seg]; ok {
			return ReasonExcludedDir
		}
	}
	if isPlaceholderFinding(f) {
		return ReasonPlaceholder
	}
	return ""
}

// Apply returns the findings that survive, in their original order.
func (flt *Filter) Apply(findings []models.SecretFinding) []models.SecretFinding {
	kept := make([]models.SecretFinding, 0, len(findings))
	for _, f := range findings {
		if reason := flt.Reason(f); reason != "" {
			flt.logger.Debug().
				Str("file", f.File).
				Str("rule_id", f.RuleID).
				Str("reason", reason).
				Msg("Dropped finding")
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
