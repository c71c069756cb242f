package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

const version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Stdin   io.Reader
	Stdout  io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"snapdomain.yaml"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress output" short:"q"`
	Expand   ExpandCmd   `cmd:"" help:"Expand pattern documents into domain names"`
	Preview  PreviewCmd  `cmd:"" help:"Show the first domain names of pattern documents"`
	Size     SizeCmd     `cmd:"" help:"Count the domain names of pattern documents without expanding them"`
	Validate ValidateCmd `cmd:"" help:"Check pattern documents for errors"`
	Export   ExportCmd   `cmd:"" help:"Expand pattern documents and store the results in a database"`
	Init     InitCmd     `cmd:"" help:"Create a sample configuration and pattern file"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "SnapDomain %s\n", version)
	return err
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("snapdomain"),
		kong.Description("Expand domain name patterns such as {car,bike}[:v:]{2}.com"),
		kong.UsageOnError(),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
