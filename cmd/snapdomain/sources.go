package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/shibukawa/snapdomain"
	"github.com/shibukawa/snapdomain/markdownparser"
	"github.com/shibukawa/snapdomain/pattern"
	"github.com/shibukawa/snapdomain/preprocess"
)

// InputFlags selects the pattern documents a command works on
type InputFlags struct {
	Files       []string `arg:"" optional:"" help:"Pattern files (.txt or .md); '-' reads standard input"`
	Expressions []string `help:"Pattern expression given on the command line" short:"e" name:"expr"`
	Parallel    int      `help:"Number of documents processed at once (0 uses the configured value or the CPU count)"`
}

// source is one input document, read and prepared
type source struct {
	Name     string
	Lines    []pattern.Line
	Settings markdownparser.Settings
	Document *pattern.Document
}

// resolveInputs returns the document names to read. Command line expressions
// are returned separately because they are not files.
func (f *InputFlags) resolveInputs(config *snapdomain.Config) []string {
	if len(f.Files) > 0 || len(f.Expressions) > 0 {
		return f.Files
	}

	return config.Inputs
}

func (f *InputFlags) parallelism(config *snapdomain.Config) int {
	switch {
	case f.Parallel > 0:
		return f.Parallel
	case config.Expansion.Parallel > 0:
		return config.Expansion.Parallel
	default:
		return runtime.NumCPU()
	}
}

// loadSources reads and parses every input. Files are handled concurrently;
// the result keeps command line order. Expressions given with -e form one
// extra document, so a definition passed with -e is visible to later ones.
func (f *InputFlags) loadSources(ctx *Context, config *snapdomain.Config) ([]*source, error) {
	files := f.resolveInputs(config)
	if len(files) == 0 && len(f.Expressions) == 0 {
		return nil, ErrNoInput
	}

	sources := make([]*source, len(files), len(files)+1)

	stdin, err := readStdin(ctx, files)
	if err != nil {
		return nil, err
	}

	g := new(errgroup.Group)
	g.SetLimit(f.parallelism(config))

	for i, file := range files {
		g.Go(func() error {
			src, err := readSource(file, stdin)
			if err != nil {
				return err
			}

			if ctx.Verbose {
				color.Blue("Parsing %s (%d statements)", src.Name, len(src.Lines))
			}

			src.Document, err = pattern.ParseDocument(src.Lines)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}

			sources[i] = src

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(f.Expressions) > 0 {
		src := expressionSource(f.Expressions)

		src.Document, err = pattern.ParseDocument(src.Lines)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}

		sources = append(sources, src)
	}

	return sources, nil
}

// readStdin reads standard input once when any of files is "-"
func readStdin(ctx *Context, files []string) ([]byte, error) {
	if !slices.Contains(files, "-") {
		return nil, nil
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read standard input: %w", err)
	}

	return data, nil
}

func expressionSource(expressions []string) *source {
	src := &source{Name: "<expr>"}
	for i, expr := range expressions {
		src.Lines = append(src.Lines, pattern.Line{Number: i + 1, Text: preprocess.Prepare(expr)})
	}

	return src
}

func readSource(file string, stdin []byte) (*source, error) {
	var data []byte

	name := file

	if file == "-" {
		data = stdin
		name = "<stdin>"
	} else {
		var err error

		data, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	src := &source{Name: name}

	if strings.EqualFold(filepath.Ext(file), ".md") {
		doc, err := markdownparser.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		src.Lines = doc.Lines()
		src.Settings = doc.Settings

		return src, nil
	}

	src.Lines = preprocess.PrepareDocument(string(data))

	return src, nil
}

// maxExpansion picks the limit for src: the flag, then the document's front
// matter, then the configuration.
func maxExpansion(flag int, src *source, config *snapdomain.Config) int {
	switch {
	case flag > 0:
		return flag
	case src.Settings.MaxExpansion > 0:
		return src.Settings.MaxExpansion
	default:
		return config.Expansion.MaxExpansion
	}
}

func previewLimit(flag int, src *source, config *snapdomain.Config) int {
	switch {
	case flag > 0:
		return flag
	case src.Settings.PreviewLimit > 0:
		return src.Settings.PreviewLimit
	default:
		return config.Expansion.PreviewLimit
	}
}

func sourceNames(sources []*source) string {
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}

	return strings.Join(names, ",")
}
