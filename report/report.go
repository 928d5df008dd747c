// Package report renders CompareResult values for humans and machines.
// Color and formatting live here, not in the comparison core.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Taciones/parquet-comparison-job/pkg/compare"
)

// -----------------------------
// Report Generator Interfaces
// -----------------------------

// Generator defines the methods for rendering a comparison report.
type Generator interface {
	Generate(result *compare.CompareResult) ([]byte, error)
	SaveToFile(result *compare.CompareResult, filePath string) error
}

// -----------------------------
// JSON Report Generator
// -----------------------------

// JSONGenerator renders the machine-readable report.
type JSONGenerator struct{}

// Generate serializes the CompareResult to indented JSON.
func (j *JSONGenerator) Generate(result *compare.CompareResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// SaveToFile writes the JSON report to a file.
func (j *JSONGenerator) SaveToFile(result *compare.CompareResult, filePath string) error {
	data, err := j.Generate(result)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// FromFilePath loads a previously saved JSON report.
func FromFilePath(filePath string) (*compare.CompareResult, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var result compare.CompareResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// -----------------------------
// Text Report Generator
// -----------------------------

// TextGenerator renders the human-readable report. Detailed mismatch tables
// are included only when Detailed is set.
type TextGenerator struct {
	Detailed bool
	NoColor  bool
}

// Summary renders the one-line per-file verdict.
func Summary(result *compare.CompareResult) string {
	if result.Match {
		return fmt.Sprintf("%s: MATCH", result.FileName)
	}
	return fmt.Sprintf("%s: NOT MATCH (%d mismatched columns)", result.FileName, len(result.ColumnResults))
}

// Generate renders the text report.
func (t *TextGenerator) Generate(result *compare.CompareResult) ([]byte, error) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	if t.NoColor {
		plain := fmt.Sprint
		green, red = plain, plain
	}

	var sb strings.Builder
	verdict := red("NOT MATCH")
	if result.Match {
		verdict = green("MATCH")
	}
	fmt.Fprintf(&sb, "%s: %s\n", result.FileName, verdict)

	if len(result.LeftOnlyColumns) > 0 {
		fmt.Fprintf(&sb, "  columns only in left:  %s\n", strings.Join(result.LeftOnlyColumns, ", "))
	}
	if len(result.RightOnlyColumns) > 0 {
		fmt.Fprintf(&sb, "  columns only in right: %s\n", strings.Join(result.RightOnlyColumns, ", "))
	}
	if result.LeftKeyColumnsMissing {
		fmt.Fprintf(&sb, "  %s\n", red("key columns not found in left table"))
	}
	if result.RightKeyColumnsMissing {
		fmt.Fprintf(&sb, "  %s\n", red("key columns not found in right table"))
	}
	if result.LeftDuplicate {
		fmt.Fprintf(&sb, "  duplicate keys in left: %s\n", formatDuplicates(result.LeftIndexDuplicates))
	}
	if result.RightDuplicate {
		fmt.Fprintf(&sb, "  duplicate keys in right: %s\n", formatDuplicates(result.RightIndexDuplicates))
	}

	if !result.IndexMatch {
		fmt.Fprintf(&sb, "  indexes: left=%d right=%d common=%d\n",
			result.LeftIndexCount, result.RightIndexCount, result.CommonIndexCount)
		if len(result.LeftOnlyIndexes) > 0 {
			fmt.Fprintf(&sb, "  keys only in left:  %s\n", formatKeys(result.LeftOnlyIndexes))
		}
		if len(result.RightOnlyIndexes) > 0 {
			fmt.Fprintf(&sb, "  keys only in right: %s\n", formatKeys(result.RightOnlyIndexes))
		}
	}

	if result.DataMatch == compare.NotEvaluated && !result.IndexMatch {
		fmt.Fprintf(&sb, "  data: %s (no common keys)\n", red("not evaluated"))
	}

	for _, name := range sortedColumnNames(result) {
		cr := result.ColumnResults[name]
		fmt.Fprintf(&sb, "  column %s: %d mismatches (%.2f%%), dtypes %s/%s\n",
			red(name), cr.MismatchCount, cr.MismatchPercent, cr.LeftDtype, cr.RightDtype)
		if !t.Detailed {
			continue
		}
		for _, row := range cr.Mismatches {
			line := fmt.Sprintf("    key=%s  %s_LEFT=%s  %s_RIGHT=%s",
				row.Key, name, row.Left, name, row.Right)
			if row.RelPercent != nil {
				line += fmt.Sprintf("  rel=%s%%", strconv.FormatFloat(*row.RelPercent, 'f', 2, 64))
			}
			sb.WriteString(line + "\n")
		}
	}

	return []byte(sb.String()), nil
}

// SaveToFile writes the text report to a file.
func (t *TextGenerator) SaveToFile(result *compare.CompareResult, filePath string) error {
	data, err := t.Generate(result)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

func formatDuplicates(dups []compare.DuplicateKey) string {
	parts := make([]string, len(dups))
	for i, d := range dups {
		parts[i] = fmt.Sprintf("%s(x%d)", d.Key, d.Count)
	}
	return strings.Join(parts, ", ")
}

func formatKeys(keys []compare.Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

func sortedColumnNames(result *compare.CompareResult) []string {
	names := make([]string, 0, len(result.ColumnResults))
	for name := range result.ColumnResults {
		names = append(names, name)
	}
	// map order is random; keep the report stable
	sort.Strings(names)
	return names
}

// -----------------------------
// HTML Report Generator
// -----------------------------

// HTMLGenerator renders a standalone HTML report.
type HTMLGenerator struct{}

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Comparison Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f4f4f4; }
        .status-pass { color: green; }
        .status-fail { color: red; }
    </style>
</head>
<body>
    <h1>Comparison Report</h1>
    <p><strong>File:</strong> {{.FileName}}</p>
    <p><strong>Overall:</strong>
        {{if .Match}}<span class="status-pass">MATCH</span>{{else}}<span class="status-fail">NOT MATCH</span>{{end}}
    </p>

    <h2>Indexes</h2>
    <table>
        <tr><th>Left</th><th>Right</th><th>Common</th><th>Index Match</th><th>Data Match</th></tr>
        <tr>
            <td>{{.LeftIndexCount}}</td>
            <td>{{.RightIndexCount}}</td>
            <td>{{.CommonIndexCount}}</td>
            <td>{{.IndexMatch}}</td>
            <td>{{.DataMatch}}</td>
        </tr>
    </table>

    <h2>Columns only on one side</h2>
    <p><strong>Left:</strong> {{range .LeftOnlyColumns}}{{.}} {{else}}none{{end}}</p>
    <p><strong>Right:</strong> {{range .RightOnlyColumns}}{{.}} {{else}}none{{end}}</p>

    <h2>Mismatched Columns</h2>
    <table>
        <tr>
            <th>Column</th>
            <th>Left dtype</th>
            <th>Right dtype</th>
            <th>Mismatches</th>
            <th>Percent</th>
        </tr>
        {{range $name, $cr := .ColumnResults}}
        <tr>
            <td>{{$name}}</td>
            <td>{{$cr.LeftDtype}}</td>
            <td>{{$cr.RightDtype}}</td>
            <td>{{$cr.MismatchCount}}</td>
            <td>{{printf "%.2f" $cr.MismatchPercent}}%</td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`

// Generate renders the HTML report.
func (h *HTMLGenerator) Generate(result *compare.CompareResult) ([]byte, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToFile writes the HTML report to a file.
func (h *HTMLGenerator) SaveToFile(result *compare.CompareResult, filePath string) error {
	data, err := h.Generate(result)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
