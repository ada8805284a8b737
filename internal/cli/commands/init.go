package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ins-amu/veplut/internal/cli/config"
	"github.com/ins-amu/veplut/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new veplut project",
		Long: `Initialize a veplut project: a veplut.yaml configuration file pointing
at the conventional data/ layout, and the data/ directory itself.

The reference atlas, rule file, and region spec still have to be
placed in data/ before compiling.`,
		Example: `  # Initialize in the current directory
  veplut init

  # Initialize in a new directory
  veplut init my-parcellation

  # Force overwrite an existing config
  veplut init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

// initConfig is the scaffolded configuration, marshalled to veplut.yaml.
type initConfig struct {
	RefLut      string `yaml:"ref_lut"`
	RulesFile   string `yaml:"rules_file"`
	RegionsFile string `yaml:"regions_file"`
	FsLut       string `yaml:"fs_lut"`
	MrtrixLut   string `yaml:"mrtrix_lut"`
	SubcortList string `yaml:"subcort_list"`
	AparcLut    string `yaml:"aparc_lut"`
	StatePath   string `yaml:"state_path"`
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, "veplut.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("veplut.yaml already exists. Use --force to overwrite")
	}

	data, err := yaml.Marshal(initConfig{
		RefLut:      config.DefaultRefLut,
		RulesFile:   config.DefaultRulesFile,
		RegionsFile: config.DefaultRegionsFile,
		FsLut:       config.DefaultFsLut,
		MrtrixLut:   config.DefaultMrtrixLut,
		SubcortList: config.DefaultSubcortList,
		AparcLut:    config.DefaultAparcLut,
		StatePath:   config.DefaultStateFile,
	})
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	r.StatusLine("veplut.yaml", "success", "")
	r.StatusLine("data/", "success", "")
	r.Println("")
	r.Success("veplut project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Place the reference color LUT at " + config.DefaultRefLut)
	r.Println("  2. Place the rule file at " + config.DefaultRulesFile)
	r.Println("  3. Place the region spec at " + config.DefaultRegionsFile)
	r.Println("  4. Run 'veplut check' to validate, then 'veplut compile'")

	return nil
}
