package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/JonMunkholm/datadash/internal/chart"
	"github.com/JonMunkholm/datadash/internal/core"
	"github.com/JonMunkholm/datadash/internal/dataset"
)

// UploadView is the data for the landing page.
type UploadView struct {
	MaxFileSize int64
	Extensions  []string
	Message     *core.UserMessage
}

// UploadPage renders the file upload form.
func UploadPage(v UploadView) templ.Component {
	return component(layout("Upload",
		H1(Text("Explore a dataset")),
		Iff(v.Message != nil, func() Node { return alert(*v.Message) }),
		Form(Class("card"), Method("post"), Action("/upload"), EncType("multipart/form-data"),
			Label(For("file"), Text("Choose a CSV, Excel or JSON file")),
			Input(Type("file"), ID("file"), Name("file"), Required(),
				Accept(strings.Join(v.Extensions, ",")),
			),
			P(Class("muted"), Textf("Accepted: %s. Maximum size %s.",
				strings.Join(v.Extensions, ", "), formatBytes(v.MaxFileSize))),
			Button(Type("submit"), Class("btn btn-primary"), Text("Upload")),
		),
	))
}

// DatasetView is everything the dataset page shows for one session.
type DatasetView struct {
	Session   core.Session
	Preview   *dataset.Table
	Summaries []dataset.Summary
	Numeric   []string
	Message   *core.UserMessage
	// Request pre-fills the chart form; it is the last attempted request.
	Request chart.Request
}

// DatasetPage renders the preview, statistics, column selection, chart
// form and the last chart of a session.
func DatasetPage(v DatasetView) templ.Component {
	sess := v.Session
	base := "/datasets/" + sess.ID

	return component(layout(sess.FileName,
		H1(Text(sess.FileName)),
		P(Class("muted"), Textf("%d rows, %d columns, %d numeric",
			sess.Original.Rows(), sess.Original.Cols(), len(v.Numeric))),
		Iff(v.Message != nil, func() Node { return alert(*v.Message) }),

		Section(Class("card"),
			H2(Text("Columns")),
			P(Text(strings.Join(sess.Original.Names(), ", "))),
			columnForm(base, v.Numeric, sess.Selected),
		),

		Section(Class("card"),
			H2(Text("Data preview")),
			dataTable(v.Preview),
		),

		Section(Class("card"),
			H2(Text("Descriptive statistics")),
			summaryTable(v.Summaries),
		),

		Section(Class("card"),
			H2(Text("Chart")),
			chartForm(base, sess.Working.NumericColumns(), v.Request),
			lastChart(base, sess),
		),

		Section(Class("card"),
			H2(Text("Downloads")),
			Ul(Class("links"),
				Li(A(Href(base+"/processed_data.csv"), Text("Processed data (CSV)"))),
				If(sess.LastChart != nil, Li(A(Href(base+"/chart.png"), Text("Chart image (PNG)")))),
			),
			Form(Method("post"), Action(base+"/close"),
				Button(Type("submit"), Class("btn"), Text("Close dataset")),
			),
		),
	))
}

func columnForm(base string, numeric, selected []string) Node {
	if len(numeric) == 0 {
		return P(Class("muted"), Text("This file has no numeric columns to select."))
	}

	isSelected := make(map[string]bool, len(selected))
	for _, name := range selected {
		isSelected[name] = true
	}

	boxes := make([]Node, 0, len(numeric))
	for i, name := range numeric {
		id := "col-" + strconv.Itoa(i)
		boxes = append(boxes, Label(Class("check"), For(id),
			Input(Type("checkbox"), ID(id), Name("columns"), Value(name), If(isSelected[name], Checked())),
			Text(" "+name),
		))
	}

	return Form(Method("post"), Action(base+"/columns"),
		FieldSet(
			Legend(Text("Numeric columns to keep")),
			Group(boxes),
		),
		Button(Type("submit"), Class("btn"), Text("Apply selection")),
	)
}

func chartForm(base string, numeric []string, req chart.Request) Node {
	kinds := make([]Node, 0, len(chart.Kinds()))
	for _, k := range chart.Kinds() {
		kinds = append(kinds, Option(Value(k.String()), If(k == req.Kind, Selected()), Text(k.Label())))
	}

	var twoColumn []string
	for _, k := range chart.Kinds() {
		if k.NeedsY() {
			twoColumn = append(twoColumn, strings.ToLower(k.Label()))
		}
	}
	y := ""
	if req.Kind.NeedsY() {
		y = req.Y
	}

	return Form(Class("chart-form"), Method("post"), Action(base+"/chart"),
		Label(For("kind"), Text("Chart type")),
		Select(ID("kind"), Name("kind"), Group(kinds)),
		Label(For("x"), Text("Column")),
		columnSelect("x", numeric, req.X, false),
		Label(For("y"), Textf("Y column (%s)", strings.Join(twoColumn, " and "))),
		columnSelect("y", numeric, y, true),
		Button(Type("submit"), Class("btn btn-primary"), Text("Draw")),
	)
}

func columnSelect(name string, numeric []string, current string, optional bool) Node {
	opts := make([]Node, 0, len(numeric)+1)
	if optional {
		opts = append(opts, Option(Value(""), Text("(none)")))
	}
	for _, col := range numeric {
		opts = append(opts, Option(Value(col), If(col == current, Selected()), Text(col)))
	}
	return Select(ID(name), Name(name), Group(opts))
}

func lastChart(base string, sess core.Session) Node {
	res := sess.LastChart
	if res == nil {
		return P(Class("muted"), Text("No chart drawn yet."))
	}

	// The query string changes with every render so browsers refetch.
	src := fmt.Sprintf("%s/chart.png?v=%d", base, sess.ChartAt.UnixNano())
	nodes := []Node{
		Figure(Class("chart"),
			Img(Src(src), Alt(res.Title)),
			FigCaption(Text(res.Title)),
		),
	}

	if res.Box != nil {
		nodes = append(nodes, P(Class("muted"), Textf(
			"Q1 %s, median %s, Q3 %s, whiskers %s to %s.",
			formatStat(res.Box.Q1), formatStat(res.Box.Median), formatStat(res.Box.Q3),
			formatStat(res.Box.WhiskerLow), formatStat(res.Box.WhiskerHigh),
		)))
	}
	if res.Outliers != nil {
		nodes = append(nodes, H2(Text("Outliers")))
		if res.Outliers.Rows() == 0 {
			nodes = append(nodes, P(Class("muted"), Text("No values outside the 1.5 IQR fences.")))
		} else {
			nodes = append(nodes, dataTable(res.Outliers))
		}
	}
	return Group(nodes)
}

func formatBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d KB", n/1024)
}
