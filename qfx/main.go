package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/qfx/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion answers and exits when the shell drives the run.
	completion().Complete("qfx")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line to the shell.
func completion() *complete.Command {
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"convert": {
				Flags: map[string]complete.Predictor{
					"verify": predict.Nothing,
					"quiet":  predict.Nothing,
				},
				Args: predict.Files("*"),
			},
			"inspect": {Args: predict.Files("*.qfx")},
			"topic":   {},
		},
		Flags: map[string]complete.Predictor{
			"mapping-file":  predict.Files("*.json"),
			"listings-file": predict.Files("*.jsonl"),
			"eodhd-api-key": predict.Something,
		},
	}
}
