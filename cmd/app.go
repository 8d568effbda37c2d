// Package cmd implements the CLI application to convert brokerage exports.
package cmd

import (
	"flag"
	"fmt"
	"log"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/qfx"
	"github.com/google/subcommands"
)

// Commands lists the subcommands.
// A main package will register them on its commander and Execute() the
// user-selected one.
var Commands = []subcommands.Command{
	&convertCmd{},
	&inspectCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var mappingFile = flag.String("mapping-file", "account_mapping.json", "Path to the JSON mapping file (account ids and missing-CUSIP rules)")
var listingsFile = flag.String("listings-file", "", "Path to a local listings database (JSONL format), used instead of EODHD to classify symbols")

// LoadMapping loads the mapping file every conversion needs.
func LoadMapping() (*qfx.Config, error) {
	return qfx.LoadConfig(*mappingFile)
}

// NewClassifier returns the security classifier conversions will use: the
// local listings database when one is given, the EODHD search API when a
// key is configured.
func NewClassifier() (qfx.Classifier, error) {
	if *listingsFile != "" {
		return qfx.LoadListings(*listingsFile)
	}
	if key := qfx.EodhdApiKey(); key != "" {
		return qfx.NewEODHD(key), nil
	}
	log.Println("warning, no listings database and no EODHD api key, every symbol will classify as a mutual fund")
	return qfx.NewListings(), nil
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
