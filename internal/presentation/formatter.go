// Package presentation renders contract metadata for the command line.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultHeader is printed above the text listing.
const DefaultHeader = "📘 Contract Metadata:"

// Formatter handles output formatting
type Formatter struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
	header   lipgloss.Style
}

// NewFormatter creates a formatter writing to writer. color selects whether
// the text header is styled: "auto" styles it only for terminals.
func NewFormatter(writer io.Writer, color string) (*Formatter, error) {
	renderer := lipgloss.NewRenderer(writer)
	switch color {
	case ColorAuto, "":
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("unsupported color mode %q (want auto, always or never)", color)
	}

	return &Formatter{
		writer:   writer,
		renderer: renderer,
		header:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}, nil
}

// Format writes c in the named format.
func (f *Formatter) Format(format, header string, c ContractDTO) error {
	switch format {
	case FormatText, "":
		return f.FormatText(header, c.Metadata)
	case FormatYAML:
		return f.FormatYAML(c)
	case FormatJSON:
		return f.FormatJSON(c)
	default:
		return fmt.Errorf("unsupported output format %q (want text, yaml or json)", format)
	}
}

// FormatText writes the header line followed by one "  key: value" line per
// entry, ordered by key.
func (f *Formatter) FormatText(header string, m map[string]string) error {
	if _, err := fmt.Fprintln(f.writer, f.header.Render(header)); err != nil {
		return err
	}
	for _, e := range SortedEntries(m) {
		if _, err := fmt.Fprintf(f.writer, "  %s: %s\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// FormatYAML writes c as a YAML document.
func (f *Formatter) FormatYAML(c ContractDTO) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return err
	}
	return encoder.Close()
}

// FormatJSON writes c as indented JSON.
func (f *Formatter) FormatJSON(c ContractDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}
