package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/andyballingall/stacv/internal/schema"
)

// TextReporter implements schema.Reporter for terminal output.
type TextReporter struct {
	// Verbose lists valid documents as well as failures.
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

// Label identifies a result as source, source#index or either followed by the document id.
func Label(res schema.Result) string {
	label := res.Source
	if res.Index >= 0 {
		label = fmt.Sprintf("%s#%d", label, res.Index)
	}
	if res.ID != "" {
		label += " (" + res.ID + ")"
	}
	return label
}

func (tr *TextReporter) Write(w io.Writer, r *schema.Report) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "STAC VALIDATION REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, r.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, r.Duration().String()))
	fmt.Fprintf(w, "%s\n", divider)

	passed, failed := 0, 0
	for _, res := range r.Sorted() {
		if res.Valid() {
			passed++
			if tr.Verbose {
				fmt.Fprintf(w, "%s %s %s\n",
					tr.cs(colGreen, "[PASS]"),
					tr.cs(colWhite, Label(res)),
					tr.cs(colGrey, res.Kind.String()))
			}
			continue
		}

		failed++
		kind := res.Kind.String()
		if res.Err != nil {
			kind = "error"
		}
		fmt.Fprintf(w, "%s %s %s\n",
			tr.cs(colRed, "[FAIL]"),
			tr.cs(colRed, Label(res)),
			tr.cs(colGrey, kind))

		if res.Err != nil {
			fmt.Fprintf(w, "  %s %v\n", tr.cs(colYellow, "!"), res.Err)
		}
		for _, v := range res.Violations {
			at := v.InstanceLocation
			if at == "" {
				at = "/"
			}
			fmt.Fprintf(w, "  %s %s: %s\n", tr.cs(colRed, "✗"), tr.cs(colGrey, at), v.Message)
			if tr.Verbose && v.SchemaLocation != "" {
				fmt.Fprintf(w, "    %s\n", tr.cs(colGrey, v.SchemaLocation+"#"+v.KeywordLocation))
			}
		}
	}

	fmt.Fprintf(w, "%s\n", divider)
	summaryLabel := tr.cs(colBoldWhite, "Validation summary: ")
	summaryStats := fmt.Sprintf("%d valid, %d invalid", passed, failed)
	statsColor := colBoldGreen
	if failed > 0 {
		statsColor = colBoldRed
	}
	fmt.Fprintf(w, "%s%s\n", summaryLabel, tr.cs(statsColor, summaryStats))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}
