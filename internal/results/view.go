// Package results turns a query payload into a display model. Build is
// total: any combination of missing or empty fields yields a view, with
// each section falling through to its next display rule.
package results

import (
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/hybridql/internal/backend"
)

// Fixed texts.
const (
	TitleUnknown  = "N/A"
	NoSQLResults  = "No SQL results found."
	NoDocResults  = "No relevant document chunks found."
	ScoreUnknown  = "N/A"
	NullValue     = "NULL"
	SnippetLength = 300
	ellipsis      = "..."
)

// SQLKind selects what the SQL section shows.
type SQLKind int

const (
	SQLEmpty SQLKind = iota
	SQLTable
	SQLFailed
)

// DocKind selects what the document section shows.
type DocKind int

const (
	DocEmpty DocKind = iota
	DocSnippets
	DocAnswer
	DocFailed
)

// View is the rendered form of one query result.
type View struct {
	Visible bool
	Title   string
	SQL     *SQLSection
	Doc     *DocSection
}

// SQLSection is present for sql and hybrid results.
type SQLSection struct {
	Kind         SQLKind
	GeneratedSQL string
	Error        string
	Headers      []string
	Rows         [][]string
}

// DocSection is present for doc and hybrid results.
type DocSection struct {
	Kind     DocKind
	Error    string
	Answer   string
	Snippets []Snippet
}

// Snippet is one retrieved chunk shown as a numbered card.
type Snippet struct {
	Number    int
	Score     string
	Text      string
	Truncated bool
}

// Heading is the card title, e.g. "1. Document Snippet (Score: 0.9123)".
func (s Snippet) Heading() string {
	return fmt.Sprintf("%d. Document Snippet (Score: %s)", s.Number, s.Score)
}

// Excerpt is the card body with the ellipsis marker when cut.
func (s Snippet) Excerpt() string {
	if s.Truncated {
		return s.Text + ellipsis
	}
	return s.Text
}

var upper = cases.Upper(language.Und)

// Build derives the view for res. A nil payload is invisible.
func Build(res *backend.QueryResult) View {
	if res == nil {
		return View{}
	}

	v := View{Visible: true, Title: TitleUnknown}
	if res.QueryType != "" {
		v.Title = upper.String(res.QueryType)
	}

	switch res.QueryType {
	case backend.QueryTypeSQL:
		v.SQL = buildSQL(res)
	case backend.QueryTypeDoc:
		v.Doc = buildDoc(res)
	case backend.QueryTypeHybrid:
		v.SQL = buildSQL(res)
		v.Doc = buildDoc(res)
	}
	return v
}

func buildSQL(res *backend.QueryResult) *SQLSection {
	s := &SQLSection{GeneratedSQL: deref(res.GeneratedSQL)}

	if msg := deref(res.SQLError); msg != "" {
		s.Kind = SQLFailed
		s.Error = msg
		return s
	}
	if len(res.SQLResults) == 0 {
		s.Kind = SQLEmpty
		return s
	}

	keys := res.SQLResults[0].Keys()
	s.Kind = SQLTable
	s.Headers = make([]string, len(keys))
	for i, k := range keys {
		s.Headers[i] = upper.String(k)
	}
	s.Rows = make([][]string, 0, len(res.SQLResults))
	for _, row := range res.SQLResults {
		cells := make([]string, len(keys))
		for i, k := range keys {
			if val, ok := row.Get(k); ok {
				cells[i] = FormatValue(val)
			}
		}
		s.Rows = append(s.Rows, cells)
	}
	return s
}

func buildDoc(res *backend.QueryResult) *DocSection {
	d := &DocSection{}
	switch {
	case deref(res.DocError) != "":
		d.Kind = DocFailed
		d.Error = *res.DocError
	case deref(res.DocAnswer) != "":
		d.Kind = DocAnswer
		d.Answer = *res.DocAnswer
	case len(res.DocResults) > 0:
		d.Kind = DocSnippets
		d.Snippets = make([]Snippet, len(res.DocResults))
		for i, doc := range res.DocResults {
			text, cut := truncate(doc.Text, SnippetLength)
			d.Snippets[i] = Snippet{
				Number:    i + 1,
				Score:     FormatScore(doc.Score),
				Text:      text,
				Truncated: cut,
			}
		}
	default:
		d.Kind = DocEmpty
	}
	return d
}

// FormatScore renders a similarity score with four decimals.
func FormatScore(score *float64) string {
	if score == nil {
		return ScoreUnknown
	}
	return strconv.FormatFloat(*score, 'f', 4, 64)
}

// FormatValue renders a SQL cell. Nested values become compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return NullValue
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func truncate(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
