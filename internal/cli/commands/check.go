package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/pkg/compile"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format string // Output format: text, json
}

// checkNames lists the consistency checks in the order they run.
var checkNames = []string{
	"rule outputs hemisphere-templated",
	"target colors unique",
	"cortical regions covered by rules",
	"subcortical regions covered by rules or reference",
	"cortical regions precede subcortical",
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate inputs without writing any output",
		Long: `Run the consistency checks that gate compilation: hemisphere
templating of rule outputs, target color uniqueness, rule coverage of
cortical and subcortical regions, and the cortical-before-subcortical
ordering of the region spec.

Duplicate colors are always collected across the whole spec and every
collision is reported, not just the first.`,
		Example: `  # Validate the project inputs
  veplut check

  # Machine-readable findings
  veplut check --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// CheckOutput is the JSON output for the check command.
type CheckOutput struct {
	Checks []CheckResult `json:"checks"`
	Valid  bool          `json:"valid"`
}

// CheckResult is one consistency check outcome.
type CheckResult struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"` // "pass", "fail", "skipped"
	Details []string `json:"details,omitempty"`
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	verr := cmdCtx.Engine.Validate()
	out := buildCheckOutput(verr)

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		renderCheckResults(r, out)
	}

	if verr != nil {
		return fmt.Errorf("validation failed: %w", verr)
	}
	return nil
}

// buildCheckOutput maps a validation error back onto the ordered check
// list: checks before the failed one passed, later ones did not run.
func buildCheckOutput(verr error) *CheckOutput {
	failed, details := failedCheck(verr)

	out := &CheckOutput{Valid: verr == nil}
	for i, name := range checkNames {
		result := CheckResult{Name: name, Status: "pass"}
		switch {
		case failed < 0 || i < failed:
			// passed
		case i == failed:
			result.Status = "fail"
			result.Details = details
		default:
			result.Status = "skipped"
		}
		out.Checks = append(out.Checks, result)
	}
	return out
}

// failedCheck returns the index of the check a validation error belongs to
// and its detail lines, or -1 for a nil error.
func failedCheck(verr error) (int, []string) {
	if verr == nil {
		return -1, nil
	}

	var malformed *compile.MalformedRuleError
	var dupColor *compile.DuplicateColorError
	var missing *compile.MissingRuleError
	var subcort *compile.SubcortCoverageError
	var ordering *compile.OrderingError

	switch {
	case errors.As(verr, &malformed):
		return 0, []string{malformed.Error()}
	case errors.As(verr, &dupColor):
		details := make([]string, 0, len(dupColor.Collisions))
		for _, c := range dupColor.Collisions {
			details = append(details, c.String())
		}
		return 1, details
	case errors.As(verr, &missing):
		return 2, []string{missing.Error()}
	case errors.As(verr, &subcort):
		return 3, []string{subcort.Error()}
	case errors.As(verr, &ordering):
		return 4, []string{ordering.Error()}
	default:
		// Load failure or unknown error: blame nothing specific.
		return 0, []string{verr.Error()}
	}
}

func renderCheckResults(r *output.Renderer, out *CheckOutput) {
	styles := r.Styles()

	r.Println("")
	for _, check := range out.Checks {
		switch check.Status {
		case "pass":
			r.StatusLine(check.Name, "success", "")
		case "fail":
			r.StatusLine(check.Name, "failed", "")
			for _, d := range check.Details {
				r.Println(styles.Error.Render("    " + d))
			}
		default:
			r.Println(styles.Muted.Render("- " + check.Name + " (skipped)"))
		}
	}
	r.Println("")

	if out.Valid {
		r.Success("Inputs are consistent")
	}
}
