package accessor

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Describe returns a one-line summary such as "accessor 3: FLOAT MAT4 x2 (stride 64)".
func Describe(v *View) string {
	return fmt.Sprintf("accessor %d: %s %s x%d (stride %d)", v.index, v.component, v.shape, v.count, v.stride)
}

// FormatTable writes the view as an aligned table: an "index" column holding
// the zero padded element index, followed by one column per component.
//
// Parameters:
//   - w: the destination
//   - v: the view to print
//
// Returns:
//   - error: the first write error
func FormatTable(w io.Writer, v *View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	cols := make([]string, 0, v.Arity()+1)
	cols = append(cols, "index")
	for c := 0; c < v.Arity(); c++ {
		cols = append(cols, strconv.Itoa(c))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t"); err != nil {
		return err
	}

	var err error
	v.Each(func(i int, elem []float64) bool {
		cols = cols[:0]
		cols = append(cols, fmt.Sprintf("%05d", i))
		for _, x := range elem {
			cols = append(cols, strconv.FormatFloat(x, 'f', 3, 64))
		}
		_, err = fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")
		return err == nil
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

// Table returns FormatTable's output as a string.
func Table(v *View) string {
	var sb strings.Builder
	_ = FormatTable(&sb, v)
	return sb.String()
}
