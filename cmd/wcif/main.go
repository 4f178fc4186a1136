package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

const semanticVersion = "v0.3.0"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	s := &session{}
	return &cli.App{
		Name:      "wcif",
		Usage:     "inspect and edit WCA competitions through WCIF",
		Version:   semanticVersion,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "Path to the configuration file; environment variables override it",
			},
		},
		Before: func(c *cli.Context) error {
			return s.init(c.String("config"), stderr)
		},
		After: func(c *cli.Context) error {
			return s.close(c.Context)
		},
		Commands: []*cli.Command{
			authURLCommand(s),
			tokenCommand(s),
			refreshCommand(s),
			fetchCommand(s),
			pushCommand(s),
			competitionsCommand(s),
			groupsCommand(s),
			overlapsCommand(s),
			delegatesCommand(s),
			exportCommand(s),
		},
	}
}
