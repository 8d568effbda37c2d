package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/qfx"
	"github.com/google/subcommands"
)

type convertCmd struct {
	verify bool
	quiet  bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a brokerage export to a QFX file" }
func (*convertCmd) Usage() string {
	return `convert [-verify] <export> [output]

Convert a brokerage activity export (CSV or XLSX) into a QFX investment
statement. The document lands next to the export with a .qfx extension
unless a second argument names a file.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.verify, "verify", false, "parse the generated document back and check it against the conversion")
	f.BoolVar(&c.quiet, "quiet", false, "do not print the conversion summary")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Error: expecting an export file and an optional output file")
		return subcommands.ExitUsageError
	}
	input := f.Arg(0)
	output := f.Arg(1)
	if output == "" {
		output = outputPath(input)
	}

	cfg, err := LoadMapping()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading mapping: %v\n", err)
		return subcommands.ExitFailure
	}
	cls, err := NewClassifier()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading listings: %v\n", err)
		return subcommands.ExitFailure
	}
	rows, err := qfx.ReadStatement(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", input, err)
		return subcommands.ExitFailure
	}
	doc, err := qfx.Build(rows, cfg, cls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting %q: %v\n", input, err)
		return subcommands.ExitFailure
	}
	rendered := doc.String()
	if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", output, err)
		return subcommands.ExitFailure
	}

	if c.verify {
		summary, err := qfx.Verify(strings.NewReader(rendered))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying %q: %v\n", output, err)
			return subcommands.ExitFailure
		}
		if err := summary.Check(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error verifying %q: %v\n", output, err)
			return subcommands.ExitFailure
		}
		if !c.quiet {
			fmt.Print(summary)
		}
	}
	if !c.quiet {
		fmt.Printf("Successfully converted %d transactions to %s\n", len(rows), output)
	}
	return subcommands.ExitSuccess
}

// outputPath derives the document file from the export file: the .csv or
// .xlsx extension becomes .qfx, any other name gets .qfx appended.
func outputPath(input string) string {
	switch ext := strings.ToLower(filepath.Ext(input)); ext {
	case ".csv", ".xlsx":
		return input[:len(input)-len(ext)] + ".qfx"
	}
	return input + ".qfx"
}
