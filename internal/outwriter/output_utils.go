package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/abarry/gapcast/internal/contract"
	"github.com/abarry/gapcast/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatCell renders a table cell for CSV and table output. Numeric cells
// honor the configured precision; missing cells render empty.
func formatCell(v schema.Value, fmtFloat func(float64) string) string {
	switch v.Kind() {
	case schema.NumberKind:
		f := v.Float()
		if f.V == float64(int64(f.V)) {
			return fmt.Sprintf("%d", int64(f.V))
		}
		return fmtFloat(f.V)
	default:
		return v.Display()
	}
}

// getMaxTableGroupWidth calculates the maximum width for group and identifier
// cells in table output based on terminal width.
func getMaxTableGroupWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns, borders and padding
	available := termWidth - 55
	if available < 12 {
		// Minimum reasonable group width
		return 12
	}
	if available > 40 {
		// Maximum group width to keep tables compact
		return 40
	}
	return available
}

// truncateCell shortens a display string to the given width.
func truncateCell(s string, maxWidth int) string {
	if maxWidth <= 3 || len(s) <= maxWidth {
		return s
	}
	return s[:maxWidth-3] + "..."
}

// intString renders an int without precision formatting.
func intString(v int) string { return strconv.Itoa(v) }

// gapPercent derives the gap share from a coverage share.
func gapPercent(coverage schema.Float) schema.Float {
	if !coverage.OK {
		return schema.Float{}
	}
	return schema.SomeFloat(100 - coverage.V)
}

// jsonCell converts a table cell to its JSON representation. Missing cells
// become null.
func jsonCell(v schema.Value) any {
	switch v.Kind() {
	case schema.StringKind:
		s, _ := v.Str()
		return s
	case schema.NumberKind:
		return v.Float().V
	case schema.DateKind:
		return v.Date().V.Format(time.DateOnly)
	default:
		return nil
	}
}
