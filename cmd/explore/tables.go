package main

import (
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/JonMunkholm/datadash/internal/dataset"
)

// printRecords draws records as a table; the first record is the header.
func printRecords(w io.Writer, records [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	if len(records) > 0 {
		table.SetHeader(records[0])
		table.AppendBulk(records[1:])
	}
	table.Render()
}

// printTable draws a dataset table.
func printTable(w io.Writer, t *dataset.Table) {
	printRecords(w, t.Records())
}

// printSummaries draws describe() statistics with one row per statistic
// and one column per numeric column.
func printSummaries(w io.Writer, summaries []dataset.Summary) {
	header := []string{""}
	for _, s := range summaries {
		header = append(header, s.Column)
	}

	rows := [][]string{header}
	stats := []struct {
		name string
		get  func(dataset.Summary) float64
	}{
		{"count", func(s dataset.Summary) float64 { return float64(s.Count) }},
		{"mean", func(s dataset.Summary) float64 { return s.Mean }},
		{"std", func(s dataset.Summary) float64 { return s.Std }},
		{"min", func(s dataset.Summary) float64 { return s.Min }},
		{"25%", func(s dataset.Summary) float64 { return s.Q1 }},
		{"50%", func(s dataset.Summary) float64 { return s.Median }},
		{"75%", func(s dataset.Summary) float64 { return s.Q3 }},
		{"max", func(s dataset.Summary) float64 { return s.Max }},
	}
	for _, st := range stats {
		row := []string{st.name}
		for _, s := range summaries {
			row = append(row, formatStat(st.get(s)))
		}
		rows = append(rows, row)
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(rows[0])
	table.AppendBulk(rows[1:])
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.Render()
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
