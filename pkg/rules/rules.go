// Package rules models the declarative region-transformation rule set that
// maps reference atlas regions onto the target parcellation.
package rules

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ins-amu/veplut/pkg/atlas"
)

// Kind is the closed set of region transformation kinds.
type Kind int

// Transformation kinds. SplitNL is a split along a non-linear boundary;
// it behaves identically to Split for table compilation.
const (
	Merge Kind = iota
	Rename
	Split
	SplitNL
)

// String returns the rule-file spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Merge:
		return "merge"
	case Rename:
		return "rename"
	case Split:
		return "split"
	case SplitNL:
		return "splitnl"
	default:
		return "unknown"
	}
}

// ParseKind converts a rule-file token to a Kind.
// Returns the kind and true if valid, or Merge and false if not.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "merge":
		return Merge, true
	case "rename":
		return Rename, true
	case "split":
		return Split, true
	case "splitnl":
		return SplitNL, true
	default:
		return Merge, false
	}
}

// Rule is one region transformation.
//
// Source names a reference atlas region (merge/rename/split) or an
// intermediate placeholder. Outputs holds the hemisphere-templated output
// names: exactly one for merge/rename, one per comma-separated template
// for split/splitnl.
type Rule struct {
	Kind    Kind
	Source  string
	Outputs []string
}

// Set is an ordered rule collection.
type Set struct {
	Source string
	Rules  []Rule
}

// Load reads a rule file from disk.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse parses a rule file: records of exactly three whitespace-delimited
// fields `kind source output-spec`, with `#` comments and blank lines
// skipped.
func Parse(r io.Reader, source string) (*Set, error) {
	set := &Set{Source: source}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 fields (kind source output-spec), got %d", source, lineno, len(fields))
		}

		kind, ok := ParseKind(fields[0])
		if !ok {
			return nil, fmt.Errorf("%s:%d: unknown rule kind %q", source, lineno, fields[0])
		}

		rule := Rule{Kind: kind, Source: fields[1]}
		switch kind {
		case Split, SplitNL:
			rule.Outputs = strings.Split(fields[2], ",")
		default:
			rule.Outputs = []string{fields[2]}
		}
		set.Rules = append(set.Rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", source, err)
	}

	return set, nil
}

// OutputNames returns the flat, order-preserving expansion of all rule
// outputs with temporary placeholders filtered out. These are the
// hemisphere-templated names of the regions the rule set introduces.
func (s *Set) OutputNames() []string {
	var names []string
	for _, rule := range s.Rules {
		for _, out := range rule.Outputs {
			if IsTempPlaceholder(out) {
				continue
			}
			names = append(names, out)
		}
	}
	return names
}

// Len returns the number of rules.
func (s *Set) Len() int {
	return len(s.Rules)
}

// IsTempPlaceholder reports whether a name is a rule-expansion scratch
// token (%0 through %9) rather than a real region.
func IsTempPlaceholder(name string) bool {
	return len(name) == 2 && name[0] == '%' && name[1] >= '0' && name[1] <= '9'
}

// HemispherePlaceholder is the template token substituted with the full
// hemisphere prefix during expansion.
const HemispherePlaceholder = "%H"

// abbrevPlaceholder is the lowercase variant substituted with lh/rh; it
// appears in rule sources targeting FreeSurfer cortical label names.
const abbrevPlaceholder = "%h"

// ExpandHemisphere substitutes the hemisphere placeholders in a template:
// %H becomes Left/Right and %h becomes lh/rh.
func ExpandHemisphere(template string, h atlas.Hemisphere) string {
	out := strings.ReplaceAll(template, HemispherePlaceholder, h.String())
	return strings.ReplaceAll(out, abbrevPlaceholder, h.Abbrev())
}
