package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/shibukawa/snapdomain"
	"github.com/shibukawa/snapdomain/expander"
	"github.com/shibukawa/snapdomain/export"
)

// OutputFlags controls how results are written
type OutputFlags struct {
	Format string `help:"Output format (text, json, yaml, csv, xml)" short:"f"`
	Output string `help:"Output file (default: standard output)" short:"o"`
	Sort   bool   `help:"Sort results alphabetically"`
}

// ExpandCmd represents the expand command
type ExpandCmd struct {
	InputFlags
	OutputFlags

	Max int `help:"Maximum number of results per document (0 uses the document or configured limit)"`
}

// Run executes the expand command
func (cmd *ExpandCmd) Run(ctx *Context) error {
	config, err := snapdomain.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sources, err := cmd.loadSources(ctx, config)
	if err != nil {
		return err
	}

	domains, total, err := expandSources(ctx, sources, cmd.Max, cmd.parallelism(config), config)
	if err != nil {
		return err
	}

	result := &export.Result{
		Source:  sourceNames(sources),
		Domains: domains,
		Total:   total.String(),
	}

	if err := writeResult(ctx, config, cmd.OutputFlags, result); err != nil {
		return err
	}

	if ctx.Verbose {
		color.Green("Expanded %d domains from %d document(s)", len(domains), len(sources))
	}

	return nil
}

// expandSources expands every source concurrently and returns the union of
// their results in source order with the summed size.
func expandSources(ctx *Context, sources []*source, flag, parallel int, config *snapdomain.Config) ([]string, expander.Cardinality, error) {
	results := make([][]string, len(sources))

	g := new(errgroup.Group)
	g.SetLimit(parallel)

	for i, src := range sources {
		g.Go(func() error {
			limit := maxExpansion(flag, src, config)

			if ctx.Verbose {
				color.Blue("Expanding %s (size %s, limit %d)", src.Name, expander.DocumentSize(src.Document), limit)
			}

			domains, err := expander.ExpandDocument(src.Document, limit)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}

			results[i] = domains

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, expander.Cardinality{}, err
	}

	total := expander.Exact(0)
	for _, src := range sources {
		total = total.Add(expander.DocumentSize(src.Document))
	}

	return union(results), total, nil
}

func union(results [][]string) []string {
	if len(results) == 1 {
		return results[0]
	}

	seen := make(map[string]struct{})

	var domains []string

	for _, result := range results {
		for _, domain := range result {
			if _, ok := seen[domain]; ok {
				continue
			}

			seen[domain] = struct{}{}
			domains = append(domains, domain)
		}
	}

	return domains
}

// PreviewCmd represents the preview command
type PreviewCmd struct {
	InputFlags
	OutputFlags

	Limit int `help:"Maximum number of results (0 uses the document or configured limit)" short:"n"`
}

// Run executes the preview command
func (cmd *PreviewCmd) Run(ctx *Context) error {
	config, err := snapdomain.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sources, err := cmd.loadSources(ctx, config)
	if err != nil {
		return err
	}

	domains, total, truncated := previewSources(sources, previewLimit(cmd.Limit, sources[0], config))

	result := &export.Result{
		Source:    sourceNames(sources),
		Domains:   domains,
		Total:     total.String(),
		Truncated: truncated,
	}

	if err := writeResult(ctx, config, cmd.OutputFlags, result); err != nil {
		return err
	}

	if truncated && !ctx.Quiet {
		color.Yellow("Showing %d of %s domains", len(domains), total)
	}

	return nil
}

// previewSources collects up to limit distinct domains across sources. Each
// document is asked for enough results to cover what earlier ones already
// produced, so duplicates between documents do not shorten the preview.
func previewSources(sources []*source, limit int) ([]string, expander.Cardinality, bool) {
	seen := make(map[string]struct{})
	total := expander.Exact(0)
	truncated := false

	var domains []string

	for _, src := range sources {
		if len(domains) >= limit {
			size := expander.DocumentSize(src.Document)
			total = total.Add(size)
			truncated = truncated || size.Exceeds(0)

			continue
		}

		preview := expander.PreviewDocument(src.Document, limit)
		total = total.Add(preview.Total)
		truncated = truncated || preview.Truncated

		for _, domain := range preview.Domains {
			if _, ok := seen[domain]; ok {
				continue
			}

			if len(domains) == limit {
				truncated = true
				break
			}

			seen[domain] = struct{}{}
			domains = append(domains, domain)
		}
	}

	return domains, total, truncated
}

// SizeCmd represents the size command
type SizeCmd struct {
	InputFlags
}

// Run executes the size command
func (cmd *SizeCmd) Run(ctx *Context) error {
	config, err := snapdomain.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sources, err := cmd.loadSources(ctx, config)
	if err != nil {
		return err
	}

	total := expander.Exact(0)

	for _, src := range sources {
		for _, d := range src.Document.Domains {
			fmt.Fprintf(ctx.Stdout, "%s:%d\t%s\t%s\n", src.Name, d.Line, d.Source, expander.Size(d))
		}

		total = total.Add(expander.DocumentSize(src.Document))
	}

	fmt.Fprintf(ctx.Stdout, "total\t%s\n", total)

	if !ctx.Quiet && total.Exceeds(config.Expansion.MaxExpansion) {
		color.Yellow("Total exceeds the configured max_expansion of %d", config.Expansion.MaxExpansion)
	}

	return nil
}

// writeResult writes result to the configured destination
func writeResult(ctx *Context, config *snapdomain.Config, flags OutputFlags, result *export.Result) error {
	format := flags.Format
	if format == "" {
		format = config.Output.Format
	}

	format = strings.ToLower(format)

	if !export.IsValidOutputFormat(format) {
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, format)
	}

	if flags.Sort || config.Output.Sort {
		result.Domains = slices.Clone(result.Domains)
		slices.Sort(result.Domains)
	}

	path := flags.Output
	if path == "" {
		path = config.Output.Path
	}

	formatter := export.NewFormatter(export.OutputFormat(format))

	if path == "" {
		if err := formatter.Format(result, ctx.Stdout); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}

		return nil
	}

	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := formatAndClose(file, formatter, result); err != nil {
		return err
	}

	if ctx.Verbose {
		color.Green("Wrote %d domains to %s", len(result.Domains), path)
	}

	return nil
}

// formatAndClose writes result to w and closes it. A Close error is returned
// unless the write already failed.
func formatAndClose(w io.WriteCloser, formatter *export.Formatter, result *export.Result) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := formatter.Format(result, w); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	return nil
}
