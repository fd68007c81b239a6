// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides output adapters for CLI operations.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appmod/internal/domain"
	"golang.org/x/term"
)

var (
	// ErrUnsupportedFormat is returned when an unsupported output format is requested.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// OutputAdapter implements domain.OutputPort for CLI output.
type OutputAdapter struct {
	writer io.Writer
	format OutputFormat
	quiet  bool
	styled bool
}

// OutputFormat represents the output format type.
type OutputFormat int

const (
	// TextFormat outputs human-readable text.
	TextFormat OutputFormat = iota
	// JSONFormat outputs machine-readable JSON.
	JSONFormat
	// PlainFormat outputs tab-separated lines without headers or decoration.
	PlainFormat
)

// NewOutputAdapter creates a new output adapter writing to stdout.
func NewOutputAdapter(format OutputFormat, quiet bool) *OutputAdapter {
	return NewOutputAdapterWithWriter(os.Stdout, format, quiet)
}

// NewOutputAdapterWithWriter creates a new output adapter with a custom writer for testing.
func NewOutputAdapterWithWriter(writer io.Writer, format OutputFormat, quiet bool) *OutputAdapter {
	return &OutputAdapter{
		writer: writer,
		format: format,
		quiet:  quiet,
		styled: format == TextFormat && isColorTerminal(writer),
	}
}

// isColorTerminal honours no-color.org and only styles real terminals.
func isColorTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// Success outputs a success message with optional structured data.
func (o *OutputAdapter) Success(message string, data any) error {
	if o.format == JSONFormat && data != nil {
		return o.outputJSON(data)
	}

	if message != "" && !o.quiet {
		_, _ = fmt.Fprintln(o.writer, message)
	}

	return nil
}

// Error outputs an error message.
func (o *OutputAdapter) Error(message string) error {
	if o.format == JSONFormat {
		return o.outputJSON(map[string]string{"error": message})
	}

	_, _ = fmt.Fprintf(o.writer, "Error: %s\n", message)

	return nil
}

// Info outputs an informational message.
func (o *OutputAdapter) Info(message string) error {
	if o.quiet || o.format == JSONFormat {
		return nil
	}

	_, _ = fmt.Fprintln(o.writer, message)

	return nil
}

// Heading outputs a section title, bold on color terminals.
func (o *OutputAdapter) Heading(title string) error {
	if o.quiet || o.format != TextFormat {
		return nil
	}

	if o.styled {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}

	_, _ = fmt.Fprintln(o.writer, title)

	return nil
}

// Table outputs tabular data.
func (o *OutputAdapter) Table(headers []string, rows [][]string) error {
	switch o.format {
	case JSONFormat:
		return o.outputJSON(map[string]any{
			"headers": headers,
			"rows":    rows,
		})
	case PlainFormat:
		for _, row := range rows {
			_, _ = fmt.Fprintln(o.writer, strings.Join(row, "\t"))
		}

		return nil
	case TextFormat:
	}

	w := tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)

	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", len(headers[i]))
	}

	_, _ = fmt.Fprintln(w, strings.Join(separators, "\t"))

	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return nil
}

// Fields outputs labelled values, one per line and aligned.
func (o *OutputAdapter) Fields(fields []domain.InfoField) error {
	if o.format == JSONFormat {
		return o.outputJSON(fields)
	}

	w := tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)

	defer func() { _ = w.Flush() }()

	for _, f := range fields {
		if o.format == PlainFormat {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", f.Label, f.Value)

			continue
		}

		_, _ = fmt.Fprintf(w, "%s:\t%s\n", f.Label, f.Value)
	}

	return nil
}

// IsQuiet returns true if output should be suppressed.
func (o *OutputAdapter) IsQuiet() bool {
	return o.quiet
}

// IsJSON returns true when results are written as JSON.
func (o *OutputAdapter) IsJSON() bool {
	return o.format == JSONFormat
}

// IsPlain returns true when results are written without decoration.
func (o *OutputAdapter) IsPlain() bool {
	return o.format == PlainFormat
}

// Writer returns the underlying writer.
func (o *OutputAdapter) Writer() io.Writer {
	return o.writer
}

// outputJSON outputs data as JSON.
func (o *OutputAdapter) outputJSON(data any) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	case "plain":
		return PlainFormat, nil
	default:
		return TextFormat, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// FormatFromFlags picks the output format from the global --json and --plain flags.
func FormatFromFlags(jsonFlag, plainFlag bool) OutputFormat {
	switch {
	case jsonFlag:
		return JSONFormat
	case plainFlag:
		return PlainFormat
	default:
		return TextFormat
	}
}
