package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/config"
	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/internal/state"
)

// deriveKinds maps the derive argument spelling to artifact kinds.
var deriveKinds = map[string]string{
	"mrtrix":  state.ArtifactMrtrixLut,
	"subcort": state.ArtifactSubcortList,
	"aparc":   state.ArtifactAparcLut,
}

// NewDeriveCommand creates the derive command.
func NewDeriveCommand() *cobra.Command {
	var fsLut string
	var outPath string

	cmd := &cobra.Command{
		Use:   "derive <mrtrix|subcort|aparc>",
		Short: "Rebuild one downstream table from an existing combined LUT",
		Long: `Rebuild a single downstream artifact from an already emitted (possibly
hand-edited) combined LUT, without re-running the full pipeline.

Each downstream table is a pure function of the combined LUT and the
region spec, so deriving one never touches the other outputs.`,
		Example: `  # Rebuild the cortical LUT after editing the combined LUT
  veplut derive aparc

  # Derive from a specific combined LUT into a specific file
  veplut derive mrtrix --fs-lut edited.txt --out MrtrixLut.txt`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"mrtrix", "subcort", "aparc"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := deriveKinds[args[0]]
			if !ok {
				return fmt.Errorf("unknown artifact %q (want mrtrix, subcort, or aparc)", args[0])
			}
			return runDerive(cmd, kind, fsLut, outPath)
		},
	}

	cmd.Flags().StringVar(&fsLut, "fs-lut", "", "Combined LUT to derive from (default: configured output)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output path (default: configured path for the artifact)")

	return cmd
}

func runDerive(cmd *cobra.Command, kind, fsLut, outPath string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if fsLut != "" {
		cfg.FsLut = fsLut
	}
	if outPath != "" {
		switch kind {
		case state.ArtifactMrtrixLut:
			cfg.MrtrixLut = outPath
		case state.ArtifactSubcortList:
			cfg.SubcortList = outPath
		case state.ArtifactAparcLut:
			cfg.AparcLut = outPath
		}
	}

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	info, err := eng.Derive(kind)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(info)
	}
	r.Success(fmt.Sprintf("Derived %s: %s (%d entries, %d bytes)",
		info.Kind, info.Path, info.Entries, info.Bytes))
	return nil
}
