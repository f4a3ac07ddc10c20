package secretscanner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	regexp "github.com/wasilibs/go-re2"
	"github.com/zricethezav/gitleaks/v8/config"
)

// RuleSetVersion is bumped whenever DefaultRuleSet changes.
const RuleSetVersion = 1

// Rule is one gitleaks detection rule.
type Rule struct {
	ID          string   `toml:"id"`
	Description string   `toml:"description"`
	Regex       string   `toml:"regex"`
	Tags        []string `toml:"tags,omitempty"`
}

// RuleSet is the ordered list of rules handed to gitleaks via --config.
type RuleSet struct {
	Version int
	Rules   []Rule
}

type ruleSetDocument struct {
	Title string `toml:"title"`
	Rules []Rule `toml:"rules"`
}

// Rule identifiers of the default rule set.
const (
	RuleStrictSecret   = "strict-secret-detection"
	RuleAWSSecret      = "aws-secret"
	RuleAWSKey         = "aws-key"
	RuleGitHubToken    = "github-token"
	RuleJWT            = "jwt"
	RuleFirebaseAPIKey = "firebase-api-key"
)

// DefaultRuleSet returns the built-in rules. The generic rule only matches
// quoted values of at least minSecretLength characters.
func DefaultRuleSet(minSecretLength int) RuleSet {
	if minSecretLength < 1 {
		minSecretLength = 1
	}

	return RuleSet{
		Version: RuleSetVersion,
		Rules: []Rule{
			{
				ID:          RuleStrictSecret,
				Description: "Detect likely passwords or secrets with high entropy",
				Regex:       `(?i)(password|passwd|pwd|secret|key|token|auth|access)[\s"']*[=:][\s"']*["']([A-Za-z0-9@#\-_!$%]{` + strconv.Itoa(minSecretLength) + `,})["']`,
				Tags:        []string{"key", "secret", "generic", "password"},
			},
			{
				ID:          RuleAWSSecret,
				Description: "AWS Secret Access Key",
				Regex:       `(?i)aws(.{0,20})?(secret|access)?(.{0,20})?['"][0-9a-zA-Z/+]{40}['"]`,
				Tags:        []string{"aws", "key", "secret"},
			},
			{
				ID:          RuleAWSKey,
				Description: "AWS Access Key ID",
				Regex:       `AKIA[0-9A-Z]{16}`,
				Tags:        []string{"aws", "key"},
			},
			{
				ID:          RuleGitHubToken,
				Description: "GitHub Personal Access Token",
				Regex:       `ghp_[A-Za-z0-9_]{36}`,
				Tags:        []string{"github", "token"},
			},
			{
				ID:          RuleJWT,
				Description: "JSON Web Token",
				Regex:       `eyJ[A-Za-z0-9-_]+\.eyJ[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+`,
				Tags:        []string{"token", "jwt"},
			},
			{
				ID:          RuleFirebaseAPIKey,
				Description: "Firebase API Key",
				Regex:       `AIza[0-9A-Za-z\-_]{35}`,
				Tags:        []string{"firebase", "apikey"},
			},
		},
	}
}

// Render serializes the rule set as a gitleaks TOML configuration.
func (rs RuleSet) Render() ([]byte, error) {
	doc := ruleSetDocument{
		Title: fmt.Sprintf("pulsegate rules v%d", rs.Version),
		Rules: rs.Rules,
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render rule set: %w", err)
	}
	return data, nil
}

// Validate checks every rule and then loads the rendered document through
// the same viper and config.Translate path gitleaks uses for --config.
func (rs RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return fmt.Errorf("rule set is empty")
	}

	seen := make(map[string]struct{}, len(rs.Rules))
	for _, r := range rs.Rules {
		if r.ID == "" {
			return fmt.Errorf("rule with regex %q has no id", r.Regex)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		// Translate panics on a bad pattern, so compile first.
		if _, err := regexp.Compile(r.Regex); err != nil {
			return fmt.Errorf("rule %q has an invalid regex: %w", r.ID, err)
		}
	}

	doc, err := rs.Render()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(doc)); err != nil {
		return fmt.Errorf("failed to read rendered rule set: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return fmt.Errorf("failed to unmarshal rendered rule set: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return fmt.Errorf("failed to translate rule set: %w", err)
	}
	if len(cfg.Rules) != len(rs.Rules) {
		return fmt.Errorf("gitleaks loaded %d of %d rules", len(cfg.Rules), len(rs.Rules))
	}
	return nil
}

// WriteTemp renders the rule set to gitleaks-custom-rules-<runID>.toml in
// dir, or in the system temp directory when dir is empty. The caller owns
// the returned file.
func (rs RuleSet) WriteTemp(dir, runID string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	data, err := rs.Render()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, RulesFileName(runID))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write rule set to %s: %w", path, err)
	}
	return path, nil
}

// RulesFileName is the per-run name of the rules file.
func RulesFileName(runID string) string {
	if runID == "" {
		return "gitleaks-custom-rules.toml"
	}
	return "gitleaks-custom-rules-" + runID + ".toml"
}
