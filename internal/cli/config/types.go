// Package config provides configuration management for the veplut CLI.
//
// Configuration merges, in increasing precedence: built-in defaults, the
// project's veplut.yaml, VEPLUT_* environment variables, and CLI flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Input files.
	RefLut      string `koanf:"ref_lut"`
	RulesFile   string `koanf:"rules_file"`
	RegionsFile string `koanf:"regions_file"`

	// Output files.
	FsLut       string `koanf:"fs_lut"`
	MrtrixLut   string `koanf:"mrtrix_lut"`
	SubcortList string `koanf:"subcort_list"`
	AparcLut    string `koanf:"aparc_lut"`

	StatePath    string `koanf:"state_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory relative paths resolve against.
	// Inferred, never read from the config file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values. The data/ layout mirrors the reference
// pipeline this compiler was built for.
const (
	DefaultRefLut      = "data/FreeSurferColorLUT.txt"
	DefaultRulesFile   = "data/VepAtlasRules.txt"
	DefaultRegionsFile = "data/VepRegions.txt"
	DefaultFsLut       = "data/VepFreeSurferColorLut.txt"
	DefaultMrtrixLut   = "data/VepMrtrixLut.txt"
	DefaultSubcortList = "data/subcort.vep.txt"
	DefaultAparcLut    = "data/VepAparcColorLut.txt"
	DefaultStateFile   = ".veplut/state.db"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
