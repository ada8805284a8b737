package atlas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Region is one target region of the parcellation, hemisphere-agnostic.
type Region struct {
	Name     string
	Cortical bool
	Color    Color
}

// RegionSpec is the ordered target region list. File order is preserved
// as-is: the consistency validator, not the loader, enforces the
// cortical-before-subcortical invariant, so an out-of-order spec can still
// be loaded and reported as a finding.
type RegionSpec struct {
	Source  string
	Regions []Region

	byName map[string]Region
}

// ReadRegions loads a target region spec file from disk.
func ReadRegions(path string) (*RegionSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open region spec: %w", err)
	}
	defer f.Close()
	return ParseRegions(f, path)
}

// ParseRegions parses a region spec (`is_cortical(0|1) name R G B A`).
func ParseRegions(r io.Reader, source string) (*RegionSpec, error) {
	spec := &RegionSpec{
		Source: source,
		byName: make(map[string]Region),
	}

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
		if len(fields) != 6 {
			return nil, fmt.Errorf("%s:%d: expected 6 columns (is_cortical name R G B A), got %d", source, lineno, len(fields))
		}

		var cortical bool
		switch fields[0] {
		case "0":
			cortical = false
		case "1":
			cortical = true
		default:
			return nil, fmt.Errorf("%s:%d: is_cortical must be 0 or 1, got %q", source, lineno, fields[0])
		}

		color, err := parseColor(fields[2:6])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineno, err)
		}

		region := Region{Name: fields[1], Cortical: cortical, Color: color}
		if _, ok := spec.byName[region.Name]; ok {
			return nil, fmt.Errorf("%s:%d: duplicate region %q", source, lineno, region.Name)
		}
		spec.Regions = append(spec.Regions, region)
		spec.byName[region.Name] = region
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read region spec %s: %w", source, err)
	}

	return spec, nil
}

// Cortical returns the cortical regions in spec order.
func (s *RegionSpec) Cortical() []Region {
	return s.filter(true)
}

// Subcortical returns the subcortical regions in spec order.
func (s *RegionSpec) Subcortical() []Region {
	return s.filter(false)
}

func (s *RegionSpec) filter(cortical bool) []Region {
	var out []Region
	for _, r := range s.Regions {
		if r.Cortical == cortical {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the region with the given name.
func (s *RegionSpec) Lookup(name string) (Region, bool) {
	r, ok := s.byName[name]
	return r, ok
}

// Len returns the number of target regions.
func (s *RegionSpec) Len() int {
	return len(s.Regions)
}
