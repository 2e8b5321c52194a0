// fightsim drives the match engine from the command line: it replays
// recorded fact scripts through the real lifecycle controller, generates
// plausible scripts and rosters for testing, and inspects roster files.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "fightsim",
		Usage: "replay and generate match fact scripts",
		Commands: []*cli.Command{
			newReplayCommand(),
			newGenerateCommand(),
			newRosterCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
