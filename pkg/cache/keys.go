package cache

import "path/filepath"

// Keyer derives cache keys.
type Keyer interface {
	// ManifestKey is the key of the run manifest of an output directory.
	ManifestKey(outputDir string, opts ManifestKeyOpts) string
}

// ManifestKeyOpts are the run settings that change generated output.
// Runs with different settings never share a manifest.
type ManifestKeyOpts struct {
	Package    string `json:"package"`
	ModuleName string `json:"module_name"`
	NavGraphs  bool   `json:"nav_graphs"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ManifestKey implements [Keyer]. The output directory is made absolute so
// relative and absolute spellings of the same directory share a manifest.
func (DefaultKeyer) ManifestKey(outputDir string, opts ManifestKeyOpts) string {
	if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}
	return hashKey("manifest", filepath.Clean(outputDir), opts)
}
