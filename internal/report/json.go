// Package report renders validation reports for the CLI.
package report

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/andyballingall/stacv/internal/schema"
)

// JSONReporter implements schema.Reporter for JSON output.
type JSONReporter struct{}

type jsonViolation struct {
	Schema   string `json:"schema,omitempty"`
	Instance string `json:"instance"`
	Keyword  string `json:"keyword,omitempty"`
	Message  string `json:"message"`
}

type jsonResult struct {
	Source     string          `json:"source"`
	Index      *int            `json:"index,omitempty"`
	ID         string          `json:"id,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	Valid      bool            `json:"valid"`
	Error      string          `json:"error,omitempty"`
	Violations []jsonViolation `json:"violations,omitempty"`
}

type jsonOutput struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
	Stats     struct {
		Valid   int `json:"valid"`
		Invalid int `json:"invalid"`
	} `json:"stats"`
	Results []jsonResult `json:"results"`
}

func (jr *JSONReporter) Write(w io.Writer, r *schema.Report) error {
	out := jsonOutput{
		StartTime: r.StartTime.Format(time.RFC3339),
		EndTime:   r.EndTime.Format(time.RFC3339),
		Duration:  r.Duration().String(),
		Results:   []jsonResult{},
	}

	for _, res := range r.Sorted() {
		item := jsonResult{
			Source: res.Source,
			ID:     res.ID,
			Valid:  res.Valid(),
		}
		if res.Index >= 0 {
			item.Index = &res.Index
		}
		if res.Kind != 0 {
			item.Kind = res.Kind.String()
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		for _, v := range res.Violations {
			item.Violations = append(item.Violations, jsonViolation{
				Schema:   v.SchemaLocation,
				Instance: v.InstanceLocation,
				Keyword:  v.KeywordLocation,
				Message:  v.Message,
			})
		}
		if item.Valid {
			out.Stats.Valid++
		} else {
			out.Stats.Invalid++
		}
		out.Results = append(out.Results, item)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
