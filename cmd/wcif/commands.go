package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	wcaclient "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/client"
	wcifservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/application"
	wcifcodec "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/infrastructure/codec"
	wcifexport "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/infrastructure/export"
)

const (
	competitionFlag = "competition"
	fileFlag        = "file"
	outputFlag      = "output"
	stdoutName      = "-"
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: competitionFlag, Aliases: []string{"id"}, Usage: "WCA competition id to fetch"},
		&cli.StringFlag{Name: fileFlag, Aliases: []string{"f"}, Usage: "local WCIF file to read instead of fetching"},
	}
}

// tokenOutput is printed in the shape of the wca section of config.yaml.
type tokenOutput struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
	Scopes       string    `yaml:"scopes"`
}

func printToken(c *cli.Context, tok oauth2.Token, scopes []wcaclient.Scope) error {
	out := tokenOutput{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	for i, sc := range scopes {
		if i > 0 {
			out.Scopes += " "
		}
		out.Scopes += string(sc)
	}
	data, err := yaml.Marshal(map[string]tokenOutput{"wca": out})
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func authURLCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "auth-url",
		Usage: "print the WCA authorization page URL",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "implicit", Usage: "request a token directly instead of an authorization code"},
			&cli.BoolFlag{Name: "manage", Usage: "request the manage_competitions scope"},
		},
		Action: func(c *cli.Context) error {
			b, err := s.oauthBuilder()
			if err != nil {
				return err
			}
			if c.Bool("manage") {
				b.WithManageCompetitions()
			}
			state := wcaclient.NewState()
			u := b.AuthorizeURL(state)
			if c.Bool("implicit") {
				u = b.ImplicitAuthorizeURL(state)
			}
			fmt.Fprintln(c.App.Writer, u)
			fmt.Fprintf(c.App.Writer, "state: %s\n", state)
			return nil
		},
	}
}

func tokenCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "exchange an authorization code for a token pair",
		ArgsUsage: "<code>",
		Action: func(c *cli.Context) error {
			code := c.Args().First()
			if code == "" {
				return fmt.Errorf("authorization code is required")
			}
			b, err := s.oauthBuilder()
			if err != nil {
				return err
			}
			client, err := b.Explicit(c.Context, code)
			if err != nil {
				return err
			}
			return printToken(c, client.Token(), client.Scopes())
		},
	}
}

func refreshCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "trade the configured refresh token for a new token pair",
		Action: func(c *cli.Context) error {
			b, err := s.oauthBuilder()
			if err != nil {
				return err
			}
			w := s.cfg.WCA
			client, err := b.Restore(w.AccessToken, w.RefreshToken)
			if err != nil {
				return err
			}
			if err := client.Refresh(c.Context); err != nil {
				return err
			}
			return printToken(c, client.Token(), client.Scopes())
		},
	}
}

func fetchCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "download a competition's WCIF",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: competitionFlag, Aliases: []string{"id"}, Required: true},
			&cli.StringFlag{Name: outputFlag, Aliases: []string{"o"}, Value: stdoutName, Usage: "file to write, or \"-\" for stdout"},
		},
		Action: func(c *cli.Context) error {
			svc, err := s.service()
			if err != nil {
				return err
			}
			cont, err := svc.Load(c.Context, c.String(competitionFlag))
			if err != nil {
				return err
			}
			return writeWcif(c, cont, c.String(outputFlag))
		},
	}
}

func writeWcif(c *cli.Context, cont *wcifservice.Container, output string) error {
	if output != stdoutName {
		return wcifcodec.WriteFile(output, cont.Wcif())
	}
	data, err := wcifcodec.SerializeIndent(cont.Wcif())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}

func pushCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "upload a local WCIF file to a competition",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: competitionFlag, Aliases: []string{"id"}, Required: true},
			&cli.StringFlag{Name: fileFlag, Aliases: []string{"f"}, Required: true},
		},
		Action: func(c *cli.Context) error {
			cont, err := wcifcodec.ParseFile(c.String(fileFlag), wcifservice.WithLogger(s.logger))
			if err != nil {
				return err
			}
			svc, err := s.service()
			if err != nil {
				return err
			}
			resp, err := svc.Push(c.Context, c.String(competitionFlag), cont)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, resp)
			return nil
		},
	}
}

func competitionsCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "competitions",
		Usage: "list the competitions you manage",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "include cancelled competitions"},
		},
		Action: func(c *cli.Context) error {
			svc, err := s.service()
			if err != nil {
				return err
			}
			comps, err := svc.ManagedCompetitions(c.Context, c.Bool("all"))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tCITY")
			for _, comp := range comps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", comp.ID, comp.Name, comp.StartDate, comp.EndDate, comp.City)
			}
			return tw.Flush()
		},
	}
}

func groupsCommand(s *session) *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{Name: "event", Aliases: []string{"e"}, Required: true, Usage: "event id, e.g. 333"},
		&cli.IntFlag{Name: "round", Aliases: []string{"r"}, Value: 1},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Required: true, Usage: "number of groups"},
		&cli.BoolFlag{Name: "replace", Usage: "remove existing groups first"},
		&cli.StringFlag{Name: outputFlag, Aliases: []string{"o"}, Usage: "where to write the edited file (defaults to --file)"},
	)
	return &cli.Command{
		Name:  "groups",
		Usage: "split a round's schedule activity into equal groups",
		Flags: flags,
		Action: func(c *cli.Context) error {
			event, round, count := c.String("event"), c.Int("round"), c.Int("count")
			replace := c.Bool("replace")

			mutate := func(cont *wcifservice.Container) error {
				if replace {
					if _, err := cont.ClearGroups(event, round); err != nil {
						return err
					}
				}
				added, err := cont.AddGroupsToEvent(event, round, count)
				if err != nil {
					return err
				}
				for _, a := range added {
					fmt.Fprintf(c.App.Writer, "%d\t%s\t%s - %s\n", a.ID, a.ActivityCode, a.StartTime, a.EndTime)
				}
				return nil
			}

			if path := c.String(fileFlag); path != "" {
				cont, err := wcifcodec.ParseFile(path, wcifservice.WithLogger(s.logger))
				if err != nil {
					return err
				}
				if err := mutate(cont); err != nil {
					return err
				}
				out := c.String(outputFlag)
				if out == "" {
					out = path
				}
				return writeWcif(c, cont, out)
			}

			id := c.String(competitionFlag)
			if id == "" {
				return fmt.Errorf("one of --%s or --%s is required", fileFlag, competitionFlag)
			}
			svc, err := s.service()
			if err != nil {
				return err
			}
			if !replace {
				added, err := svc.AddGroups(c.Context, id, event, round, count)
				if err != nil {
					return err
				}
				for _, a := range added {
					fmt.Fprintf(c.App.Writer, "%d\t%s\t%s - %s\n", a.ID, a.ActivityCode, a.StartTime, a.EndTime)
				}
				return nil
			}
			_, err = svc.Update(c.Context, id, mutate)
			return err
		},
	}
}

func overlapsCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "overlaps",
		Usage: "list pairs of schedule activities that overlap in time",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			cont, err := s.container(c)
			if err != nil {
				return err
			}
			for _, p := range cont.OverlappingActivities() {
				fmt.Fprintf(c.App.Writer, "%d %s <-> %d %s\n", p.First.ID, p.First.Name, p.Second.ID, p.Second.Name)
			}
			return nil
		},
	}
}

func delegatesCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "delegates",
		Usage: "list registrant ids of delegates and trainee delegates",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			cont, err := s.container(c)
			if err != nil {
				return err
			}
			for _, id := range cont.DelegateRegistrantIDs() {
				name := ""
				if p, ok := cont.PersonByRegistrantID(id); ok {
					name = p.Name
				}
				fmt.Fprintf(c.App.Writer, "%d\t%s\n", id, name)
			}
			return nil
		},
	}
}

func exportCommand(s *session) *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{Name: outputFlag, Aliases: []string{"o"}, Required: true, Usage: "xlsx file to write, or \"-\" for stdout"},
	)
	return &cli.Command{
		Name:  "export",
		Usage: "write the schedule and assignments as a spreadsheet",
		Flags: flags,
		Action: func(c *cli.Context) error {
			cont, err := s.container(c)
			if err != nil {
				return err
			}
			e := wcifexport.NewXLSXExporter(s.logger)
			if out := c.String(outputFlag); out != stdoutName {
				return e.WriteFile(out, cont)
			}
			return e.Write(c.App.Writer, cont)
		},
	}
}
