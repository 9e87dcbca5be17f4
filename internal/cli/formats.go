package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aidanlsb/magpie/internal/orm"
	"github.com/aidanlsb/magpie/internal/types"
	"github.com/aidanlsb/magpie/internal/ui"
)

// outputResult renders an executed result in the requested format. JSON
// mode wins over --format so agents always get the envelope.
func outputResult(result *orm.Result, format string, meta *Meta) error {
	if isJSONOutput() {
		outputSuccess(result, meta)
		return nil
	}

	switch format {
	case "", "table":
		return renderTable(result, meta)
	case "csv":
		return writeCSV(os.Stdout, result)
	case "json":
		outputSuccess(result, meta)
		return nil
	case "md", "markdown":
		fmt.Print(markdownTable(result))
		return nil
	default:
		return handleErrorMsg(ErrInvalidInput,
			fmt.Sprintf("unknown format %q", format),
			"Use table, csv, json, or md")
	}
}

func renderTable(result *orm.Result, meta *Meta) error {
	if len(result.Rows) == 0 {
		fmt.Println(ui.Hint("No rows."))
		return nil
	}

	display := ui.NewDisplayContext()
	grid := ui.NewDataTable(display, resultColumns(result))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = linkedCell(v)
		}
		grid.AddRow(cells)
	}
	fmt.Println(grid.Render())
	if meta != nil {
		printHint(fmt.Sprintf("%d rows in %dms", meta.Count, meta.QueryTimeMs))
	}
	return nil
}

func resultColumns(result *orm.Result) []ui.DataColumn {
	cols := make([]ui.DataColumn, len(result.Fields))
	for i, f := range result.Fields {
		cols[i] = ui.DataColumn{
			Title:   f.Pretty,
			Numeric: f.Type == types.Number.Name() || f.Type == types.Duration.Name(),
		}
	}
	return cols
}

// linkedCell renders one value, wrapping URLs in terminal hyperlinks.
func linkedCell(v any) string {
	s := cellString(v)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || (strings.HasPrefix(s, "/") && looksLikeURLPath(s)) {
		return hyperlink(s, s)
	}
	return s
}

// looksLikeURLPath guards against linking ordinary values that merely
// start with a slash; only single-token paths qualify.
func looksLikeURLPath(s string) bool {
	return !strings.ContainsAny(s, " \t")
}

// cellString renders one display-formatted value for text output.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		// Integral floats print without the trailing ".0" drivers love.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = cellString(e)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

func writeCSV(w *os.File, result *orm.Result) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(result.Fields))
	for i, f := range result.Fields {
		header[i] = f.Path
	}
	if err := cw.Write(header); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	record := make([]string, len(result.Fields))
	for _, row := range result.Rows {
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err := cw.Write(record); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	return nil
}

func writeResultJSON(w *os.File, result *orm.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func markdownTable(result *orm.Result) string {
	var b strings.Builder
	b.WriteString("|")
	for _, f := range result.Fields {
		b.WriteString(" " + escapeMarkdownCell(f.Pretty) + " |")
	}
	b.WriteString("\n|")
	for range result.Fields {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range result.Rows {
		b.WriteString("|")
		for _, v := range row {
			b.WriteString(" " + escapeMarkdownCell(cellString(v)) + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
