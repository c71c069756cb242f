package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-yaml"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatCSV  OutputFormat = "csv"
	FormatXML  OutputFormat = "xml"
)

// Result is an expansion ready to be written out
type Result struct {
	Source    string   `json:"source,omitempty" yaml:"source,omitempty"`
	Domains   []string `json:"domains" yaml:"domains"`
	Total     string   `json:"total" yaml:"total"`
	Truncated bool     `json:"truncated" yaml:"truncated"`
}

// Formatter writes results in one output format
type Formatter struct {
	Format OutputFormat
}

// NewFormatter creates a new result formatter
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{
		Format: format,
	}
}

// Format writes result according to the configured format
func (f *Formatter) Format(result *Result, output io.Writer) error {
	switch f.Format {
	case FormatText:
		return f.formatAsText(result, output)
	case FormatJSON:
		return f.formatAsJSON(result, output)
	case FormatYAML:
		return f.formatAsYAML(result, output)
	case FormatCSV:
		return f.formatAsCSV(result, output)
	case FormatXML:
		return f.formatAsXML(result, output)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, f.Format)
	}
}

// formatAsText writes one domain per line
func (f *Formatter) formatAsText(result *Result, output io.Writer) error {
	var sb strings.Builder
	for _, domain := range result.Domains {
		sb.WriteString(domain)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(output, sb.String())

	return err
}

func (f *Formatter) formatAsJSON(result *Result, output io.Writer) error {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	return encoder.Encode(result)
}

func (f *Formatter) formatAsYAML(result *Result, output io.Writer) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal results to YAML: %w", err)
	}

	_, err = output.Write(data)

	return err
}

func (f *Formatter) formatAsCSV(result *Result, output io.Writer) error {
	writer := csv.NewWriter(output)

	if err := writer.Write([]string{"domain"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, domain := range result.Domains {
		if err := writer.Write([]string{domain}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

func (f *Formatter) formatAsXML(result *Result, output io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("domains")
	if result.Source != "" {
		root.CreateAttr("source", result.Source)
	}

	root.CreateAttr("total", result.Total)
	root.CreateAttr("truncated", strconv.FormatBool(result.Truncated))

	for _, domain := range result.Domains {
		root.CreateElement("domain").SetText(domain)
	}

	doc.Indent(2)

	_, err := doc.WriteTo(output)

	return err
}

// IsValidOutputFormat checks if the output format is valid
func IsValidOutputFormat(format string) bool {
	switch OutputFormat(strings.ToLower(format)) {
	case FormatText, FormatJSON, FormatYAML, FormatCSV, FormatXML:
		return true
	}

	return false
}
