package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
	Dir string `help:"Project directory" default:"."`
}

const sampleConfig = `# Pattern files expanded when no file is given on the command line
inputs:
  - "./patterns.txt"

expansion:
  max_expansion: 1000000  # 0 disables the limit
  preview_limit: 100
  parallel: 0             # 0 uses one worker per CPU

output:
  format: "text"          # text, json, yaml, csv, xml
  sort: false

export:
  default_environment: "development"
  batch_size: 500

databases:
  development:
    driver: "sqlite"
    connection: "./snapdomain.db"
    table: "snapdomain_results"

  production:
    driver: "postgres"
    connection: "postgres://${DB_USER}:${DB_PASS}@${DB_HOST}:${DB_PORT}/${DB_NAME}"
`

const samplePatterns = `# Variables are defined with @name = value and used as @name
@tlds = {com,net,io}

# Vowel-consonant names on every TLD
[:c:][:v:][:c:].@tlds

# Optional plural
{car,bike}(s)?.@tlds
`

func (i *InitCmd) Run(ctx *Context) error {
	if ctx.Verbose {
		color.Blue("Initializing SnapDomain project in %s", i.Dir)
	}

	files := []struct {
		name    string
		content string
	}{
		{"snapdomain.yaml", sampleConfig},
		{"patterns.txt", samplePatterns},
	}

	for _, file := range files {
		path := filepath.Join(i.Dir, file.name)

		if fileExists(path) {
			if !ctx.Quiet {
				color.Yellow("Skipped %s: file already exists", path)
			}

			continue
		}

		if err := writeFile(path, file.content); err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}

		if ctx.Verbose {
			color.Green("Created %s", path)
		}
	}

	if !ctx.Quiet {
		color.Green("SnapDomain project initialized successfully")
		fmt.Fprintln(ctx.Stdout, "\nNext steps:")
		fmt.Fprintln(ctx.Stdout, "1. Edit patterns.txt to describe the names you want")
		fmt.Fprintln(ctx.Stdout, "2. Run 'snapdomain size' to check how many names it produces")
		fmt.Fprintln(ctx.Stdout, "3. Run 'snapdomain expand' or 'snapdomain export'")
	}

	return nil
}
