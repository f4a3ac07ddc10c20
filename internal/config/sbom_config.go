package config

// SBOMConfig configures SBOM generation with cdxgen and its upload.
type SBOMConfig struct {
	// Command is split on whitespace, so "npx cdxgen" works.
	Command            string   `json:"command,omitempty" yaml:"command,omitempty" validate:"required"`
	OutputFile         string   `json:"output_file,omitempty" yaml:"output_file,omitempty" validate:"required"`
	SpecVersion        string   `json:"spec_version,omitempty" yaml:"spec_version,omitempty" validate:"required"`
	NoDevDependencies  bool     `json:"no_dev_dependencies" yaml:"no_dev_dependencies"`
	ExcludePaths       []string `json:"exclude_paths,omitempty" yaml:"exclude_paths,omitempty" validate:"dive,required"`
	ExcludedComponents []string `json:"excluded_components,omitempty" yaml:"excluded_components,omitempty"`
	NpmInstall         bool     `json:"npm_install" yaml:"npm_install"`
	NpmBinary          string   `json:"npm_binary,omitempty" yaml:"npm_binary,omitempty" validate:"required_if=NpmInstall true"`
	DisplayName        string   `json:"display_name,omitempty" yaml:"display_name,omitempty" validate:"required"`
	BranchName         string   `json:"branch_name,omitempty" yaml:"branch_name,omitempty" validate:"required"`
}

func NewDefaultSBOMConfig() SBOMConfig {
	return SBOMConfig{
		Command:            DefaultCdxgenCommand,
		OutputFile:         DefaultSBOMFileName,
		SpecVersion:        DefaultSBOMSpecVersion,
		NoDevDependencies:  true,
		ExcludePaths:       []string{DefaultCIWorkDir + "/**", "node_modules/**"},
		ExcludedComponents: append([]string(nil), DefaultSBOMExcludedComponents...),
		NpmInstall:         true,
		NpmBinary:          DefaultNpmBinary,
		DisplayName:        DefaultSBOMDisplayName,
		BranchName:         DefaultSBOMBranchName,
	}
}
