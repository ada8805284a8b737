package atlas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is one LUT row: an integer index, a region name, and its color.
type Entry struct {
	Index int
	Name  string
	Color Color
}

// Table is an ordered LUT with unique name and index lookups.
//
// RawLines preserves every source line verbatim (headers, comments, spacing)
// so a table can be copied byte-for-byte into a derived LUT, which downstream
// FreeSurfer tooling expects.
type Table struct {
	Source   string
	Entries  []Entry
	RawLines []string

	byName  map[string]Entry
	byIndex map[int]Entry
}

// ReadTable loads a LUT file from disk.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open LUT: %w", err)
	}
	defer f.Close()
	return ParseTable(f, path)
}

// ParseTable parses a whitespace-delimited LUT (`index name R G B A`).
// Full-line and trailing `#` comments and blank lines are skipped; the
// original lines, comments included, are retained in RawLines.
func ParseTable(r io.Reader, source string) (*Table, error) {
	t := &Table{
		Source:  source,
		byName:  make(map[string]Entry),
		byIndex: make(map[int]Entry),
	}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		t.RawLines = append(t.RawLines, line)

		data := line
		if i := strings.IndexByte(data, '#'); i >= 0 {
			data = data[:i]
		}
		fields := strings.Fields(data)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 6 {
			return nil, fmt.Errorf("%s:%d: expected 6 columns (index name R G B A), got %d", source, lineno, len(fields))
		}

		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid index %q: %w", source, lineno, fields[0], err)
		}
		color, err := parseColor(fields[2:6])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineno, err)
		}

		entry := Entry{Index: index, Name: fields[1], Color: color}
		if err := t.add(entry); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read LUT %s: %w", source, err)
	}

	return t, nil
}

func (t *Table) add(e Entry) error {
	if _, ok := t.byName[e.Name]; ok {
		return fmt.Errorf("duplicate region name %q", e.Name)
	}
	if _, ok := t.byIndex[e.Index]; ok {
		return fmt.Errorf("duplicate index %d", e.Index)
	}
	t.Entries = append(t.Entries, e)
	t.byName[e.Name] = e
	t.byIndex[e.Index] = e
	return nil
}

// Lookup returns the entry for a region name.
func (t *Table) Lookup(name string) (Entry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// LookupIndex returns the entry with the given index.
func (t *Table) LookupIndex(index int) (Entry, bool) {
	e, ok := t.byIndex[index]
	return e, ok
}

// Has reports whether the table contains a region with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Len returns the number of entries (not raw lines).
func (t *Table) Len() int {
	return len(t.Entries)
}
