package results

import (
	"bytes"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Section headings shared by every renderer.
const (
	HeadingResults = "Query Results"
	HeadingSQL     = "SQL Table Data"
	HeadingDoc     = "Document Answer"
	LabelSQL       = "SQL:"
	LabelSQLError  = "SQL Error:"
	LabelDocError  = "Document Search Error:"
)

var (
	cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")
	lineJoiner  = strings.NewReplacer("\r\n", " ", "\n", " ")

	// The converter writes < and > as entities. Text is shielded with
	// private-use runes so the output keeps them literal, like the SQL section.
	angleShield   = strings.NewReplacer("<", "\uE000", ">", "\uE001")
	angleUnshield = strings.NewReplacer("\uE000", "<", "\uE001", ">")
)

// Markdown renders v for terminals and pipes. An invisible view renders
// as the empty string.
func Markdown(v View) (string, error) {
	if !v.Visible {
		return "", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n", HeadingResults, v.Title)

	if v.SQL != nil {
		b.WriteString("\n")
		writeSQLMarkdown(&b, v.SQL)
	}

	if v.Doc != nil {
		md, err := docMarkdown(v.Doc)
		if err != nil {
			return "", fmt.Errorf("render document section: %w", err)
		}
		b.WriteString("\n")
		b.WriteString(md)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func writeSQLMarkdown(b *strings.Builder, s *SQLSection) {
	fmt.Fprintf(b, "### %s\n\n", HeadingSQL)

	if s.GeneratedSQL != "" {
		fence := codeFence(s.GeneratedSQL)
		fmt.Fprintf(b, "%s\n\n%ssql\n%s\n%s\n\n", LabelSQL, fence, s.GeneratedSQL, fence)
	}

	switch s.Kind {
	case SQLFailed:
		fmt.Fprintf(b, "**%s** %s\n", LabelSQLError, lineJoiner.Replace(s.Error))
	case SQLTable:
		fmt.Fprintf(b, "| %s |\n", joinCells(s.Headers))
		seps := make([]string, len(s.Headers))
		for i := range seps {
			seps[i] = "---"
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(seps, " | "))
		for _, row := range s.Rows {
			fmt.Fprintf(b, "| %s |\n", joinCells(row))
		}
	default:
		fmt.Fprintf(b, "%s\n", NoSQLResults)
	}
}

// codeFence returns a backtick fence longer than any backtick run in code.
func codeFence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	return strings.Repeat("`", max(3, longest+1))
}

func joinCells(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = cellEscaper.Replace(c)
	}
	return strings.Join(escaped, " | ")
}

// docMarkdown builds the document section as HTML and converts it, so
// markdown syntax in answer and snippet text is escaped.
func docMarkdown(d *DocSection) (string, error) {
	root := element(atom.Div)
	root.AppendChild(elementText(atom.H3, HeadingDoc))

	switch d.Kind {
	case DocFailed:
		p := element(atom.P)
		p.AppendChild(elementText(atom.Strong, LabelDocError))
		p.AppendChild(text(" " + lineJoiner.Replace(d.Error)))
		root.AppendChild(p)
	case DocAnswer:
		quote := element(atom.Blockquote)
		for _, para := range paragraphs(d.Answer) {
			quote.AppendChild(elementText(atom.P, para))
		}
		root.AppendChild(quote)
	case DocSnippets:
		for _, s := range d.Snippets {
			p := element(atom.P)
			p.AppendChild(elementText(atom.Strong, s.Heading()))
			root.AppendChild(p)
			quote := element(atom.Blockquote)
			quote.AppendChild(elementText(atom.P, `"`+s.Excerpt()+`"`))
			root.AppendChild(quote)
		}
	default:
		root.AppendChild(elementText(atom.P, NoDocResults))
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	return angleUnshield.Replace(strings.TrimSpace(md)), nil
}

func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, s)
	}
	return out
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func elementText(a atom.Atom, s string) *html.Node {
	n := element(a)
	n.AppendChild(text(s))
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: angleShield.Replace(s)}
}
