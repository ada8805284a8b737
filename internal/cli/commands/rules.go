package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ins-amu/veplut/internal/cli/output"
	"github.com/ins-amu/veplut/pkg/rules"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Kind   string // Filter by kind: merge, rename, split, splitnl
	Format string // Output format: text, markdown, json
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the region transformation rules",
		Long: `List the parsed transformation rules in file order, with per-kind
counts. Each rule maps a reference atlas region (or an intermediate
placeholder) to one or more hemisphere-templated output regions.`,
		Example: `  # List all rules
  veplut rules

  # Split rules only
  veplut rules --kind split

  # Output as JSON
  veplut rules --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Filter by kind: merge, rename, split, splitnl")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// RuleInfo is one rule row in the JSON output.
type RuleInfo struct {
	Kind    string   `json:"kind"`
	Source  string   `json:"source"`
	Outputs []string `json:"outputs"`
}

// RulesOutput is the JSON output for the rules command.
type RulesOutput struct {
	Rules  []RuleInfo     `json:"rules"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

func runRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	if opts.Kind != "" {
		if _, ok := rules.ParseKind(opts.Kind); !ok {
			return fmt.Errorf("unknown rule kind %q (want merge, rename, split, or splitnl)", opts.Kind)
		}
	}

	set, err := rules.Load(cmdCtx.Cfg.RulesFile)
	if err != nil {
		return err
	}

	out := buildRulesOutput(set, opts.Kind)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderRulesMarkdown(r, out)
	default:
		return renderRulesText(r, out)
	}
}

func buildRulesOutput(set *rules.Set, kindFilter string) *RulesOutput {
	out := &RulesOutput{Counts: make(map[string]int), Total: set.Len()}
	for _, rule := range set.Rules {
		kind := rule.Kind.String()
		out.Counts[kind]++
		if kindFilter != "" && kind != strings.ToLower(kindFilter) {
			continue
		}
		out.Rules = append(out.Rules, RuleInfo{
			Kind:    kind,
			Source:  rule.Source,
			Outputs: rule.Outputs,
		})
	}
	return out
}

func renderRulesText(r *output.Renderer, out *RulesOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Transformation Rules (%d total)", out.Total)))
	r.Println(styles.Muted.Render(fmt.Sprintf("  merge: %d  rename: %d  split: %d  splitnl: %d",
		out.Counts["merge"], out.Counts["rename"], out.Counts["split"], out.Counts["splitnl"])))
	r.Println("")

	for _, rule := range out.Rules {
		r.Printf("  %-8s %-40s -> %s\n",
			styles.Bold.Render(rule.Kind), rule.Source, strings.Join(rule.Outputs, ", "))
	}
	r.Println("")
	return nil
}

func renderRulesMarkdown(r *output.Renderer, out *RulesOutput) error {
	r.Println("# Transformation Rules")
	r.Println("")
	r.Println("| Kind | Source | Outputs |")
	r.Println("|------|--------|---------|")
	for _, rule := range out.Rules {
		r.Printf("| %s | %s | %s |\n", rule.Kind, rule.Source, strings.Join(rule.Outputs, ", "))
	}
	r.Println("")
	r.Printf("Total: %d rules\n", out.Total)
	return nil
}
