package compile

import (
	"fmt"
	"io"

	"github.com/ins-amu/veplut/pkg/atlas"
)

// combinedBanner separates the verbatim reference rows from the appended
// parcellation rows in the combined LUT.
const combinedBanner = "\n\n#\n# Labels for the VEP parcellation\n#\n\n"

// The row formats below are fixed external contracts; downstream consumers
// parse these files positionally.

// WriteCombined emits the combined LUT: every reference source line
// byte-for-byte, the banner, then the new entries.
func WriteCombined(w io.Writer, ref *atlas.Table, entries []atlas.Entry) error {
	for _, line := range ref.RawLines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, combinedBanner); err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%5d  %-60s %3d %3d %3d %2d\n",
			e.Index, e.Name, e.Color.R, e.Color.G, e.Color.B, e.Color.A); err != nil {
			return err
		}
	}
	return nil
}

// WriteRenumbered emits the sequentially numbered LUT. The Unknown row has
// its own fixed format.
func WriteRenumbered(w io.Writer, entries []atlas.Entry) error {
	for _, e := range entries {
		var err error
		if e.Index == 0 {
			_, err = fmt.Fprintf(w, "   0   %-60s  0   0   0   0\n", e.Name)
		} else {
			_, err = fmt.Fprintf(w, "%4d   %-60s  %4d %4d %4d %4d\n",
				e.Index, e.Name, e.Color.R, e.Color.G, e.Color.B, e.Color.A)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteIndices emits the subcortical index list, one integer per line.
func WriteIndices(w io.Writer, indices []int) error {
	for _, idx := range indices {
		if _, err := fmt.Fprintf(w, "%d\n", idx); err != nil {
			return err
		}
	}
	return nil
}

// WriteCortical emits the zero-based cortical LUT.
func WriteCortical(w io.Writer, entries []atlas.Entry) error {
	for _, e := range entries {
		var err error
		if e.Index == 0 {
			_, err = fmt.Fprintf(w, "  0 %-60s   0   0   0   0\n", e.Name)
		} else {
			_, err = fmt.Fprintf(w, "%3d %-60s %3d %3d %3d %3d\n",
				e.Index, e.Name, e.Color.R, e.Color.G, e.Color.B, e.Color.A)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
