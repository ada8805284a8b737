package commands

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/config"
	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/internal/state"
	"github.com/ins-amu/veplut/pkg/atlas"
	"github.com/ins-amu/veplut/pkg/compile"
	"github.com/ins-amu/veplut/pkg/rules"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run a project health check",
		Long: `Analyze the project setup: input files present and parseable, inputs
mutually consistent, and the state database reachable. Reports each
check as pass/warn/error with an overall health score.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  veplut doctor

  # Output as JSON
  veplut doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	HealthChecks []HealthCheck `json:"health_checks"`
	Score        int           `json:"score"`
	IssueCount   int           `json:"issue_count"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	doctorOutput := buildDoctorOutput(cfg)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(cfg *config.Config) *DoctorOutput {
	var checks []HealthCheck

	checks = append(checks, checkConfigFile())

	// Input files: each must exist and parse. Mutual consistency is
	// only meaningful once all three load.
	refCheck, ref := checkRefLut(cfg.RefLut)
	rulesCheck, set := checkRulesFile(cfg.RulesFile)
	specCheck, spec := checkRegionsFile(cfg.RegionsFile)
	checks = append(checks, refCheck, rulesCheck, specCheck)

	checks = append(checks, checkConsistency(set, ref, spec))
	checks = append(checks, checkStateStore(cfg.StatePath))

	issues := 0
	for _, c := range checks {
		if c.Status != "pass" {
			issues++
		}
	}

	return &DoctorOutput{
		HealthChecks: checks,
		Score:        calculateHealthScore(checks),
		IssueCount:   issues,
	}
}

func checkConfigFile() HealthCheck {
	check := HealthCheck{Name: "project configuration", Group: "project", Status: "pass"}
	if used := config.GetConfigFileUsed(); used != "" {
		check.Details = []string{used}
	} else {
		check.Status = "warn"
		check.Details = []string{"no veplut.yaml found, using defaults"}
	}
	return check
}

func checkRefLut(path string) (HealthCheck, *atlas.Table) {
	check := HealthCheck{Name: "reference atlas", Group: "inputs", Status: "pass"}
	ref, err := atlas.ReadTable(path)
	if err != nil {
		check.Status = "error"
		check.Details = []string{err.Error()}
		return check, nil
	}
	check.Details = []string{fmt.Sprintf("%s (%d entries)", path, ref.Len())}
	return check, ref
}

func checkRulesFile(path string) (HealthCheck, *rules.Set) {
	check := HealthCheck{Name: "transformation rules", Group: "inputs", Status: "pass"}
	set, err := rules.Load(path)
	if err != nil {
		check.Status = "error"
		check.Details = []string{err.Error()}
		return check, nil
	}
	check.Details = []string{fmt.Sprintf("%s (%d rules)", path, set.Len())}
	return check, set
}

func checkRegionsFile(path string) (HealthCheck, *atlas.RegionSpec) {
	check := HealthCheck{Name: "target region spec", Group: "inputs", Status: "pass"}
	spec, err := atlas.ReadRegions(path)
	if err != nil {
		check.Status = "error"
		check.Details = []string{err.Error()}
		return check, nil
	}
	check.Details = []string{fmt.Sprintf("%s (%d cortical, %d subcortical)",
		path, len(spec.Cortical()), len(spec.Subcortical()))}
	return check, spec
}

func checkConsistency(set *rules.Set, ref *atlas.Table, spec *atlas.RegionSpec) HealthCheck {
	check := HealthCheck{Name: "input consistency", Group: "consistency", Status: "pass"}
	if set == nil || ref == nil || spec == nil {
		check.Status = "warn"
		check.Details = []string{"skipped: not all inputs loaded"}
		return check
	}
	if err := compile.Validate(set, ref, spec); err != nil {
		check.Status = "error"
		check.Details = strings.Split(err.Error(), "\n")
	}
	return check
}

func checkStateStore(path string) HealthCheck {
	check := HealthCheck{Name: "state database", Group: "state", Status: "pass"}

	store := state.NewSQLiteStore(nil)
	if err := store.Open(path); err != nil {
		check.Status = "error"
		check.Details = []string{err.Error()}
		return check
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		check.Status = "error"
		check.Details = []string{err.Error()}
		return check
	}

	if latest, err := store.GetLatestRun(); err == nil && latest != nil {
		check.Details = []string{fmt.Sprintf("last run %s (%s)", shortID(latest.ID), latest.Status)}
	} else {
		check.Details = []string{path}
	}
	return check
}

// calculateHealthScore computes a 0-100 score: errors cost 25, warnings 10.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= 25
		case "warn":
			score -= 10
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("veplut Project Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		}
		r.Printf("   %s %s\n", icon, check.Name)
		for _, detail := range check.Details {
			r.Println(styles.Muted.Render("       " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# veplut Project Health Report")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("## " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}
		r.Printf("- **[%s]** %s\n", status, check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	return nil
}
