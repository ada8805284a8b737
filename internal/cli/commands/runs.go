package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/internal/state"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show compilation history",
		Long: `Show recent compilation runs recorded in the state database, most
recent first.`,
		Example: `  # Show the last 10 runs
  veplut runs

  # Show more history
  veplut runs --limit 50

  # Inspect one run and its artifacts
  veplut runs show 4f7c2a`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRunsList(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

func newRunsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(cmd, args[0])
		},
	}
}

func runRunsList(cmd *cobra.Command, limit int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	r := cmdCtx.Renderer

	runs, err := cmdCtx.Engine.Store().ListRuns(limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runsToJSON(runs))
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded yet")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"Run", "Status", "Started", "Duration", "Error"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			shortID(run.ID),
			string(run.Status),
			run.StartedAt.Format(time.RFC3339),
			runDuration(run),
			truncate(run.Error, 40),
		})
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return nil
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func runRunsShow(cmd *cobra.Command, id string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	r := cmdCtx.Renderer
	styles := r.Styles()

	run, err := resolveRun(cmdCtx.Engine.Store(), id)
	if err != nil {
		return err
	}
	artifacts, err := cmdCtx.Engine.Store().ArtifactsForRun(run.ID)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"run": runToJSON(run), "artifacts": artifacts})
	}

	r.Println("")
	r.Println(styles.Header1.Render("Run " + run.ID))
	r.Printf("  %s: %s\n", styles.Bold.Render("Status"), run.Status)
	r.Printf("  %s: %s\n", styles.Bold.Render("Started"), run.StartedAt.Format(time.RFC3339))
	r.Printf("  %s: %s\n", styles.Bold.Render("Duration"), runDuration(run))
	r.Printf("  %s: %s, %s, %s\n", styles.Bold.Render("Inputs"), run.RefLut, run.RulesFile, run.RegionsFile)
	if run.Error != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Error"), styles.Error.Render(run.Error))
	}
	r.Println("")

	if len(artifacts) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.AppendHeader(table.Row{"Kind", "Path", "Entries", "Bytes", "Checksum"})
		for _, a := range artifacts {
			t.AppendRow(table.Row{a.Kind, a.Path, a.Entries, a.Bytes, a.Checksum})
		}
		if r.EffectiveMode() == output.ModeMarkdown {
			t.RenderMarkdown()
		} else {
			t.SetStyle(table.StyleLight)
			t.Render()
		}
	}
	return nil
}

// resolveRun looks a run up by full ID, falling back to unique-prefix
// matching over recent history so the short IDs shown by `runs` work.
func resolveRun(store *state.SQLiteStore, id string) (*state.Run, error) {
	run, err := store.GetRun(id)
	if err == nil {
		return run, nil
	}

	runs, lerr := store.ListRuns(100)
	if lerr != nil {
		return nil, err
	}
	var match *state.Run
	for _, candidate := range runs {
		if strings.HasPrefix(candidate.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous run id prefix: %s", id)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, err
	}
	return match, nil
}

// RunJSON is the JSON shape for one run.
type RunJSON struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	Error       string `json:"error,omitempty"`
	RefLut      string `json:"ref_lut"`
	RulesFile   string `json:"rules_file"`
	RegionsFile string `json:"regions_file"`
}

func runToJSON(run *state.Run) RunJSON {
	out := RunJSON{
		ID:          run.ID,
		Status:      string(run.Status),
		StartedAt:   run.StartedAt.Format(time.RFC3339),
		Error:       run.Error,
		RefLut:      run.RefLut,
		RulesFile:   run.RulesFile,
		RegionsFile: run.RegionsFile,
	}
	if run.CompletedAt != nil {
		out.CompletedAt = run.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func runsToJSON(runs []*state.Run) []RunJSON {
	out := make([]RunJSON, len(runs))
	for i, run := range runs {
		out[i] = runToJSON(run)
	}
	return out
}

func runDuration(run *state.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
