package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/pkg/atlas"
)

// RegionsOptions holds options for the regions command.
type RegionsOptions struct {
	Class  string // Filter: cortical, subcortical
	Format string // Output format: text, markdown, json
}

// NewRegionsCommand creates the regions command.
func NewRegionsCommand() *cobra.Command {
	opts := &RegionsOptions{}
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the target regions of the parcellation",
		Long: `List the target regions from the region specification, in file order,
with their anatomical class and color.`,
		Example: `  # List all target regions
  veplut regions

  # Subcortical regions only
  veplut regions --class subcortical

  # Output as JSON
  veplut regions --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegions(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Class, "class", "", "Filter by class: cortical, subcortical")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// RegionInfo is one region row in the JSON output.
type RegionInfo struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Class    string `json:"class"`
	Color    string `json:"color"`
}

// RegionsOutput is the JSON output for the regions command.
type RegionsOutput struct {
	Regions []RegionInfo `json:"regions"`
	Count   struct {
		Cortical    int `json:"cortical"`
		Subcortical int `json:"subcortical"`
		Total       int `json:"total"`
	} `json:"count"`
}

func runRegions(cmd *cobra.Command, opts *RegionsOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	spec, err := atlas.ReadRegions(cmdCtx.Cfg.RegionsFile)
	if err != nil {
		return err
	}

	out := buildRegionsOutput(spec, opts.Class)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderRegionsMarkdown(r, out)
	default:
		return renderRegionsText(r, out)
	}
}

func buildRegionsOutput(spec *atlas.RegionSpec, class string) *RegionsOutput {
	out := &RegionsOutput{}
	for i, region := range spec.Regions {
		regionClass := "subcortical"
		if region.Cortical {
			regionClass = "cortical"
			out.Count.Cortical++
		} else {
			out.Count.Subcortical++
		}
		if class != "" && class != regionClass {
			continue
		}
		out.Regions = append(out.Regions, RegionInfo{
			Position: i + 1,
			Name:     region.Name,
			Class:    regionClass,
			Color:    region.Color.String(),
		})
	}
	out.Count.Total = out.Count.Cortical + out.Count.Subcortical
	return out
}

func renderRegionsText(r *output.Renderer, out *RegionsOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Target Regions (%d cortical, %d subcortical)",
		out.Count.Cortical, out.Count.Subcortical)))
	r.Println("")

	for _, region := range out.Regions {
		r.Printf("  %3d. %-40s %-12s %s\n",
			region.Position, region.Name, region.Class, styles.Muted.Render(region.Color))
	}
	r.Println("")
	return nil
}

func renderRegionsMarkdown(r *output.Renderer, out *RegionsOutput) error {
	r.Println("# Target Regions")
	r.Println("")
	r.Println("| # | Name | Class | Color |")
	r.Println("|---|------|-------|-------|")
	for _, region := range out.Regions {
		r.Printf("| %d | %s | %s | %s |\n", region.Position, region.Name, region.Class, region.Color)
	}
	r.Println("")
	r.Printf("Total: %d regions (%d cortical, %d subcortical)\n",
		out.Count.Total, out.Count.Cortical, out.Count.Subcortical)
	return nil
}
