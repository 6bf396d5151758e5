package commands

import (
	"fmt"

	"github.com/leapstack-labs/hybridql/internal/cli/output"
	"github.com/leapstack-labs/hybridql/internal/query"
	"github.com/leapstack-labs/hybridql/internal/results"
)

// QueryErrorJSON is the JSON output structure for a failed question.
type QueryErrorJSON struct {
	Error string `json:"error"`
}

// renderQueryState writes the outcome of one question in the renderer's mode.
func renderQueryState(r *output.Renderer, st query.State) error {
	mode := r.EffectiveMode()

	if st.Err != nil {
		if mode == output.ModeJSON {
			return r.JSON(QueryErrorJSON{Error: st.Error})
		}
		r.Error("Error: " + st.Error)
		return nil
	}

	switch mode {
	case output.ModeJSON:
		// The payload is passed through unmodified.
		return r.JSON(st.Result)
	case output.ModeMarkdown:
		md, err := results.Markdown(results.Build(st.Result))
		if err != nil {
			return err
		}
		r.Printf("%s", md)
		return nil
	default:
		renderResultsText(r, results.Build(st.Result))
		return nil
	}
}

func renderResultsText(r *output.Renderer, v results.View) {
	if !v.Visible {
		return
	}
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("%s (%s)", results.HeadingResults, v.Title))

	if s := v.SQL; s != nil {
		r.Println("")
		r.Header(2, results.HeadingSQL)
		if s.GeneratedSQL != "" {
			r.Println(styles.Bold.Render(results.LabelSQL) + " " + styles.Code.Render(s.GeneratedSQL))
		}
		switch s.Kind {
		case results.SQLFailed:
			r.Println(styles.Error.Render(results.LabelSQLError) + " " + s.Error)
		case results.SQLTable:
			r.Table(s.Headers, s.Rows)
		default:
			r.Println(styles.Muted.Render(results.NoSQLResults))
		}
	}

	if d := v.Doc; d != nil {
		r.Println("")
		r.Header(2, results.HeadingDoc)
		switch d.Kind {
		case results.DocFailed:
			r.Println(styles.Error.Render(results.LabelDocError) + " " + d.Error)
		case results.DocAnswer:
			r.Println(d.Answer)
		case results.DocSnippets:
			for _, sn := range d.Snippets {
				r.Println(styles.Bold.Render(sn.Heading()))
				r.Println(sn.Excerpt())
				r.Println("")
			}
		default:
			r.Println(styles.Muted.Render(results.NoDocResults))
		}
	}
}
