// Package output renders command results as text, tables or JSON depending
// on output.format.
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"
	"github.com/pretheevi/skillswap/pkg/config"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// Out receives regular output; Err receives errors and warnings
var (
	Out io.Writer = color.Output
	Err io.Writer = color.Error
)

// SetWriters redirects output, mostly for tests. It returns a func that
// restores the previous writers.
func SetWriters(out, err io.Writer) (restore func()) {
	prevOut, prevErr := Out, Err
	Out, Err = out, err
	return func() { Out, Err = prevOut, prevErr }
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Print writes data as JSON in json mode and calls text otherwise
func Print(data interface{}, text func(w io.Writer)) error {
	if GetOutputFormat() == FormatJSON {
		return printJSON(data)
	}
	text(Out)
	return nil
}

// PrintList writes data as JSON in json mode, as a table in table mode, and
// calls text in text mode
func PrintList(data interface{}, headers []string, rows [][]string, text func(w io.Writer)) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return printJSON(data)
	case FormatTable:
		printTable(Out, headers, rows)
		return nil
	default:
		text(Out)
		return nil
	}
}

// PrintRecord writes ordered key/value pairs
func PrintRecord(data interface{}, keys []string, values map[string]string) error {
	switch GetOutputFormat() {
	case FormatJSON:
		return printJSON(data)
	case FormatTable:
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, []string{k, values[k]})
		}
		printTable(Out, []string{"Field", "Value"}, rows)
		return nil
	default:
		bold := color.New(color.Bold)
		for _, k := range keys {
			bold.Fprint(Out, k+": ")
			fmt.Fprintln(Out, values[k])
		}
		return nil
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Out, msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Err, "Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Out, msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Err, "Warning: "+msg+"\n", args...)
}

func printJSON(data interface{}) error {
	s, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Out, s)
	return err
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(tw, h)
		if i < len(headers)-1 {
			fmt.Fprint(tw, "\t")
		}
	}
	fmt.Fprintln(tw)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(tw, cell)
			if i < len(row)-1 {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}

	tw.Flush()
}

// FormatAsJSON converts data to a compact JSON string
func FormatAsJSON(data interface{}) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatAsPrettyJSON converts data to an indented JSON string
func FormatAsPrettyJSON(data interface{}) (string, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
