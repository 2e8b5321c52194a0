package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/duelyard/fightcore/config"
)

func newRosterCommand() *cli.Command {
	return &cli.Command{
		Name:      "roster",
		Usage:     "print the fighters a roster file defines",
		ArgsUsage: "[roster.ini]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "engine configuration file"},
		},
		Action: runRoster,
	}
}

func runRoster(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.NArg() > 0 {
		cfg.Roster.Path = c.Args().First()
	}

	roster, err := rosterFromConfig(cfg)
	if err != nil {
		return err
	}

	source := cfg.Roster.Path
	if source == "" {
		source = "built-in"
	}
	fmt.Printf("%d fighters (%s)\n", roster.Len(), source)
	for _, name := range roster.Names() {
		f, _ := roster.Fighter(name)
		fmt.Printf("  %-14s %-16s health=%g walk=%g jump=%g attack=%g\n",
			name, f.DisplayName, f.MaxHealth, f.WalkSpeed, f.JumpPower, f.Attack)
	}
	return nil
}
