package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/config"
	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/internal/engine"
)

// CompileOptions holds options for the compile command.
type CompileOptions struct {
	FsLut     string // Combined FreeSurfer-style LUT output path
	MrtrixLut string // Renumbered LUT output path
	Subcort   string // Subcortical index list output path
	AparcLut  string // Cortical LUT output path
	Format    string // Output format: text, json
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	opts := &CompileOptions{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile all four parcellation LUTs",
		Long: `Compile the parcellation lookup tables from the reference atlas,
the transformation rules, and the target region specification.

Validation gates emission: if any consistency check fails, no output
file is written. On success four artifacts are produced in dependency
order: the combined FreeSurfer LUT, the renumbered (mrtrix) LUT, the
subcortical index list, and the cortical (aparc) LUT.`,
		Example: `  # Compile with the project configuration
  veplut compile

  # Override a single output path
  veplut compile --fs-lut out/VepFreeSurferColorLut.txt

  # Machine-readable result
  veplut compile --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FsLut, "fs-lut", "", "Combined FreeSurfer LUT output path")
	cmd.Flags().StringVar(&opts.MrtrixLut, "mrtrix-lut", "", "Renumbered LUT output path")
	cmd.Flags().StringVar(&opts.Subcort, "subcort", "", "Subcortical index list output path")
	cmd.Flags().StringVar(&opts.AparcLut, "aparc-lut", "", "Cortical LUT output path")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

func runCompile(cmd *cobra.Command, opts *CompileOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	applyCompileOverrides(cfg, opts)

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	start := time.Now()
	result, err := eng.Compile()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(result)
	}

	renderArtifactTable(r, result.Artifacts)
	r.Println("")
	r.Success(fmt.Sprintf("Compiled %d artifacts in %s (run %s)",
		len(result.Artifacts), elapsed.Round(time.Millisecond), result.RunID))
	return nil
}

// applyCompileOverrides applies per-invocation output path flags over the
// loaded configuration.
func applyCompileOverrides(cfg *config.Config, opts *CompileOptions) {
	if opts.FsLut != "" {
		cfg.FsLut = opts.FsLut
	}
	if opts.MrtrixLut != "" {
		cfg.MrtrixLut = opts.MrtrixLut
	}
	if opts.Subcort != "" {
		cfg.SubcortList = opts.Subcort
	}
	if opts.AparcLut != "" {
		cfg.AparcLut = opts.AparcLut
	}
}

func renderArtifactTable(r *output.Renderer, artifacts []engine.ArtifactInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"Kind", "Path", "Entries", "Bytes", "Checksum"})
	for _, a := range artifacts {
		t.AppendRow(table.Row{a.Kind, a.Path, a.Entries, a.Bytes, a.Hash})
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
