// Package templates renders the dashboard's HTML. Pages are built from
// gomponents nodes and exposed as templ.Component so handlers render every
// view the same way.
package templates

import (
	"context"
	"io"
	"math"
	"strconv"

	"github.com/a-h/templ"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// component adapts a gomponents tree to templ.Component, the interface
// handlers serve pages through.
func component(n Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return n.Render(w)
	})
}

func layout(title string, body ...Node) Node {
	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | Data Explorer")),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
		),
		Body(
			Header(Class("topbar"),
				A(Href("/"), Class("brand"), Text("Data Explorer")),
			),
			Main(Class("page"), Group(body)),
		),
	))
}

// alert renders a user-facing error or warning with its support code.
func alert(msg core.UserMessage) Node {
	class := "alert alert-error"
	if msg.Warning {
		class = "alert alert-warning"
	}
	return Div(Class(class), Attr("role", "alert"),
		Strong(Text(msg.Message)),
		If(msg.Detail != "", P(Class("alert-detail"), Text(msg.Detail))),
		P(Text(msg.Action+" "), Span(Class("code"), Text("("+msg.Code+")"))),
	)
}

// dataTable renders t with a header row. Missing cells are blank.
func dataTable(t *dataset.Table) Node {
	records := t.Records()
	if len(records) == 0 {
		return nil
	}

	head := make([]Node, len(records[0]))
	for i, name := range records[0] {
		head[i] = Th(Text(name))
	}

	rows := make([]Node, 0, len(records)-1)
	for _, rec := range records[1:] {
		cells := make([]Node, len(rec))
		for i, v := range rec {
			cells[i] = Td(Text(v))
		}
		rows = append(rows, Tr(cells...))
	}

	return Div(Class("table-wrap"),
		Table(Class("data"),
			THead(Tr(head...)),
			TBody(rows...),
		),
	)
}

// summaryTable lays describe() output out with statistics as rows and
// columns across, the way pandas prints it.
func summaryTable(summaries []dataset.Summary) Node {
	if len(summaries) == 0 {
		return P(Class("muted"), Text("No numeric columns selected."))
	}

	head := []Node{Th()}
	for _, s := range summaries {
		head = append(head, Th(Text(s.Column)))
	}

	stats := []struct {
		label string
		value func(dataset.Summary) string
	}{
		{"count", func(s dataset.Summary) string { return strconv.Itoa(s.Count) }},
		{"mean", func(s dataset.Summary) string { return formatStat(s.Mean) }},
		{"std", func(s dataset.Summary) string { return formatStat(s.Std) }},
		{"min", func(s dataset.Summary) string { return formatStat(s.Min) }},
		{"25%", func(s dataset.Summary) string { return formatStat(s.Q1) }},
		{"50%", func(s dataset.Summary) string { return formatStat(s.Median) }},
		{"75%", func(s dataset.Summary) string { return formatStat(s.Q3) }},
		{"max", func(s dataset.Summary) string { return formatStat(s.Max) }},
	}

	rows := make([]Node, 0, len(stats))
	for _, st := range stats {
		cells := []Node{Th(Text(st.label))}
		for _, s := range summaries {
			cells = append(cells, Td(Text(st.value(s))))
		}
		rows = append(rows, Tr(cells...))
	}

	return Div(Class("table-wrap"),
		Table(Class("data stats"),
			THead(Tr(head...)),
			TBody(rows...),
		),
	)
}

// formatStat prints six significant digits, NaN as "NaN".
func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
