package secretscanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/pulsegate/internal/common"
	"github.com/aleister1102/pulsegate/internal/config"
	"github.com/aleister1102/pulsegate/internal/secretscanner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func newTestWalker(t *testing.T, extraSkip ...string) *secretscanner.Walker {
	t.Helper()
	skip, err := secretscanner.NewSkipRules(append(append([]string(nil), config.DefaultSkipFiles...), extraSkip...), nil)
	require.NoError(t, err)
	return secretscanner.NewWalker(skip, config.DefaultExcludedDirs, config.DefaultReportPrefixes, zerolog.Nop())
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"secret.env":                       `API_KEY="abcdEFGH12345678"`,
		"package.json":                     `{}`,
		"src/b.js":                         "b",
		"src/a.js":                         "a",
		"src/README.md":                    "docs",
		"node_modules/lib/index.js":        "x",
		".git/config":                      "x",
		"neotrak-jenkins/tool.js":          "x",
		"credentials_report_123/old.json":  "[]",
		"trivy_report_9/out.json":          "{}",
		"nested/node_modules/deep/file.js": "x",
		"credentials_report_5.json":        "[]",
	})

	files, err := newTestWalker(t, "credentials_report_5.json").Walk(root)
	require.NoError(t, err)

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"secret.env", "src/a.js", "src/b.js"}, rel)
}

func TestWalker_RootNotFound(t *testing.T) {
	_, err := newTestWalker(t).Walk(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)
}

func TestWalker_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := newTestWalker(t).Walk(file)
	assert.ErrorIs(t, err, common.ErrDirectoryNotFound)
}

func TestWalker_ExcludedNameAsRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "neotrak-jenkins")
	writeTree(t, root, map[string]string{"app.js": "x"})

	files, err := newTestWalker(t).Walk(root)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
