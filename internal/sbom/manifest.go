// Package sbom generates a CycloneDX SBOM with cdxgen and uploads it once
// the CI helper's own dependencies are removed from it.
package sbom

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoManifest is returned when the scan root holds no supported manifest.
var ErrNoManifest = errors.New("no supported manifest file found")

// ManifestNames are the dependency manifests that make a root worth an SBOM.
var ManifestNames = []string{"package.json", "pom.xml", "build.gradle", "requirements.txt"}

// manifestSuffixes match manifests whose base name varies per project.
var manifestSuffixes = []string{".csproj"}

const npmManifest = "package.json"

// DetectManifests lists the manifests present directly under root, in the
// order of ManifestNames followed by suffix matches sorted by name.
func DetectManifests(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(entries))
	var suffixed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		present[name] = true
		for _, suffix := range manifestSuffixes {
			if strings.HasSuffix(strings.ToLower(name), suffix) {
				suffixed = append(suffixed, name)
			}
		}
	}

	var found []string
	for _, name := range ManifestNames {
		if present[name] {
			found = append(found, name)
		}
	}
	slices.Sort(suffixed)
	found = append(found, suffixed...)

	if len(found) == 0 {
		return nil, ErrNoManifest
	}
	return found, nil
}

func hasNpmManifest(manifests []string) bool {
	return slices.Contains(manifests, npmManifest)
}

// outputPath resolves the SBOM file against root unless it is absolute.
func outputPath(root, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(root, file)
}
