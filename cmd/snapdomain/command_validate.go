package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/snapdomain"
	"github.com/shibukawa/snapdomain/expander"
	"github.com/shibukawa/snapdomain/pattern"
)

// ValidateCmd represents the validate command
type ValidateCmd struct {
	InputFlags
}

// Run executes the validate command. Unlike the other commands it checks
// every input and reports all failures before returning.
func (cmd *ValidateCmd) Run(ctx *Context) error {
	config, err := snapdomain.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	files := cmd.resolveInputs(config)
	if len(files) == 0 && len(cmd.Expressions) == 0 {
		return ErrNoInput
	}

	stdin, err := readStdin(ctx, files)
	if err != nil {
		return err
	}

	var sources []*source

	failed := 0

	for _, file := range files {
		src, err := readSource(file, stdin)
		if err != nil {
			color.Red("✗ %v", err)

			failed++

			continue
		}

		sources = append(sources, src)
	}

	if len(cmd.Expressions) > 0 {
		sources = append(sources, expressionSource(cmd.Expressions))
	}

	for _, src := range sources {
		doc, err := pattern.ParseDocument(src.Lines)
		if err != nil {
			color.Red("✗ %s: %v", src.Name, err)

			failed++

			continue
		}

		if len(doc.Domains) == 0 && !ctx.Quiet {
			color.Yellow("%s: %v", src.Name, snapdomain.ErrNoExpressions)
		}

		size := expander.DocumentSize(doc)
		limit := maxExpansion(0, src, config)

		if limit > 0 && size.Exceeds(limit) && !ctx.Quiet {
			color.Yellow("%s: %s domains exceed max_expansion of %d", src.Name, size, limit)
		}

		if !ctx.Quiet {
			fmt.Fprintf(ctx.Stdout, "✓ %s (%d variables, %d expressions, %s domains)\n",
				src.Name, len(doc.Variables), len(doc.Domains), size)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs have errors", ErrValidationFailed, failed, len(files)+min(len(cmd.Expressions), 1))
	}

	if ctx.Verbose {
		color.Green("All inputs are valid")
	}

	return nil
}
