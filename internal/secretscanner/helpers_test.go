package secretscanner_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aleister1102/pulsegate/internal/common/command"
	"github.com/aleister1102/pulsegate/internal/models"
	"github.com/pelletier/go-toml/v2"
	regexp "github.com/wasilibs/go-re2"
)

// fakeExecutor stands in for the process layer. Calls to a binary named
// gitleaks are answered by gitleaks, everything else exits 0.
type fakeExecutor struct {
	mu       sync.Mutex
	missing  map[string]bool
	execErr  error
	exitCode int
	gitleaks func(req fakeRequest) (string, error)
	calls    [][]string
	rules    string
}

type fakeRequest struct {
	Root       string
	ReportPath string
	RulesPath  string
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/local/bin/" + name, nil
}

func (f *fakeExecutor) Execute(_ context.Context, dir string, name string, args ...string) (command.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{filepath.Base(name)}, args...))

	if filepath.Base(name) != "gitleaks" {
		return command.Result{}, nil
	}
	if f.execErr != nil {
		return command.Result{}, f.execErr
	}

	req := fakeRequest{Root: dir}
	for _, a := range args {
		if v, ok := strings.CutPrefix(a, "--source="); ok {
			req.Root = v
		}
		if v, ok := strings.CutPrefix(a, "--report-path="); ok {
			req.ReportPath = v
		}
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			req.RulesPath = v
		}
	}
	if data, err := os.ReadFile(req.RulesPath); err == nil {
		f.rules = string(data)
	}

	if f.gitleaks != nil {
		body, err := f.gitleaks(req)
		if err != nil {
			return command.Result{}, err
		}
		if body != "" {
			if err := os.WriteFile(req.ReportPath, []byte(body), 0o644); err != nil {
				return command.Result{}, err
			}
		}
	}
	return command.Result{ExitCode: f.exitCode, Stdout: []byte("scan done"), Stderr: []byte("leaks found")}, nil
}

func (f *fakeExecutor) binaries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c[0])
	}
	return out
}

func (f *fakeExecutor) gitleaksArgs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c[0] == "gitleaks" {
			return c[1:]
		}
	}
	return nil
}

// fixedReport answers every scan with body.
func fixedReport(body string) func(fakeRequest) (string, error) {
	return func(fakeRequest) (string, error) { return body, nil }
}

// regexGitleaks applies the rules from the --config file line by line, the
// way gitleaks does for a directory source, and returns a gitleaks report.
func regexGitleaks(req fakeRequest) (string, error) {
	data, err := os.ReadFile(req.RulesPath)
	if err != nil {
		return "", err
	}
	var doc struct {
		Rules []struct {
			ID          string `toml:"id"`
			Description string `toml:"description"`
			Regex       string `toml:"regex"`
		} `toml:"rules"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", err
	}

	findings := []map[string]any{}
	err = filepath.WalkDir(req.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == req.ReportPath {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		line := 0
		for scanner.Scan() {
			line++
			text := scanner.Text()
			for _, r := range doc.Rules {
				re := regexp.MustCompile(r.Regex)
				loc := re.FindStringSubmatchIndex(text)
				if loc == nil {
					continue
				}
				match := text[loc[0]:loc[1]]
				secret := match
				if n := len(loc); n > 2 && loc[n-2] >= 0 {
					secret = text[loc[n-2]:loc[n-1]]
				}
				findings = append(findings, map[string]any{
					"RuleID":      r.ID,
					"Description": r.Description,
					"File":        path,
					"Match":       match,
					"Secret":      secret,
					"StartLine":   line,
					"EndLine":     line,
					"StartColumn": loc[0] + 1,
					"EndColumn":   loc[1],
				})
			}
		}
		return scanner.Err()
	})
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(findings)
	return string(out), err
}

type fakeUploader struct {
	calls   int
	records []models.SecretRecord
	err     error
}

func (u *fakeUploader) UploadSecrets(_ context.Context, records []models.SecretRecord) error {
	u.calls++
	u.records = records
	return u.err
}
