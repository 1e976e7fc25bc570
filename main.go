package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"orchestrion/composition"
	"orchestrion/config"
	"orchestrion/debug"
	"orchestrion/render"
	"orchestrion/theme"
	"orchestrion/tui"
)

func main() {
	cmd := &cli.Command{
		Name:  "orchestrion",
		Usage: "render orchestral compositions to Standard MIDI Files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file `PATH` (default ~/.config/orchestrion/config.json)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write a trace log to the config dir",
			},
		},
		Commands: []*cli.Command{
			renderCommand(),
			demoCommand(),
			inspectCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Command) (*config.Config, error) {
	if c.Bool("debug") {
		if err := debug.Enable(); err != nil {
			return nil, err
		}
	}
	if path := c.String("config"); path != "" {
		return config.LoadPath(path)
	}
	return config.Load()
}

// renderOptions folds config defaults and command-line overrides into
// the renderer options.
func renderOptions(c *cli.Command, cfg *config.Config) (render.Options, error) {
	table, err := cfg.Table()
	if err != nil {
		return render.Options{}, err
	}
	opts := render.Options{
		TicksPerQuarter:  cfg.TicksPerQuarter,
		PreRoll:          time.Duration(cfg.PreRollMs) * time.Millisecond,
		Articulations:    table,
		SequentialTracks: c.Bool("sequential"),
	}
	if ppqn := c.Int("ppqn"); ppqn > 0 {
		if ppqn > 0x7fff {
			return render.Options{}, fmt.Errorf("ppqn %d out of range (max 32767)", ppqn)
		}
		opts.TicksPerQuarter = uint16(ppqn)
	}
	if c.IsSet("pre-roll") {
		opts.PreRoll = c.Duration("pre-roll")
	}
	return opts, nil
}

func writeMIDI(comp *composition.Composition, opts render.Options, out string) error {
	start := time.Now()
	data, err := render.Render(comp, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	log.Info("rendered",
		"file", out,
		"parts", len(comp.Parts),
		"notes", comp.NoteCount(),
		"bytes", len(data),
		"took", time.Since(start).Round(time.Millisecond))
	return nil
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a composition file to a .mid file",
		ArgsUsage: "COMPOSITION.json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output `FILE` (default: input name with .mid)",
			},
			&cli.IntFlag{
				Name:  "ppqn",
				Usage: "ticks per quarter note",
			},
			&cli.DurationFlag{
				Name:  "pre-roll",
				Usage: "keyswitch lead time before the note it governs",
			},
			&cli.BoolFlag{
				Name:  "sequential",
				Usage: "encode tracks one at a time",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("composition file required")
			}
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			comp, err := composition.LoadFile(path)
			if err != nil {
				return err
			}
			opts, err := renderOptions(c, cfg)
			if err != nil {
				return err
			}
			out := c.String("output")
			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + ".mid"
			}
			return writeMIDI(comp, opts, out)
		},
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "render a built-in composition from a mood preset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "mood",
				Aliases: []string{"m"},
				Value:   "serene",
				Usage:   "mood preset `NAME` from the config",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "demo.mid",
				Usage:   "output `FILE`",
			},
			&cli.StringFlag{
				Name:  "save",
				Usage: "also write the composition as JSON to `FILE`",
			},
			&cli.IntFlag{
				Name:  "ppqn",
				Usage: "ticks per quarter note",
			},
			&cli.DurationFlag{
				Name:  "pre-roll",
				Usage: "keyswitch lead time before the note it governs",
			},
			&cli.BoolFlag{
				Name:  "sequential",
				Usage: "encode tracks one at a time",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			name := c.String("mood")
			preset, ok := cfg.Mood(name)
			if !ok {
				return fmt.Errorf("unknown mood %q (have: %s)",
					name, strings.Join(cfg.MoodNames(), ", "))
			}
			comp, err := buildDemo(name, preset)
			if err != nil {
				return err
			}
			if path := c.String("save"); path != "" {
				if err := comp.SaveFile(path); err != nil {
					return err
				}
				log.Info("saved composition", "file", path)
			}
			opts, err := renderOptions(c, cfg)
			if err != nil {
				return err
			}
			return writeMIDI(comp, opts, c.String("output"))
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "browse a composition file in the terminal",
		ArgsUsage: "COMPOSITION.json",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "palette",
				Usage: "GIMP palette `FILE` for the inspector colors",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("composition file required")
			}
			if _, err := setup(c); err != nil {
				return err
			}
			defer debug.Disable()

			comp, err := composition.LoadFile(path)
			if err != nil {
				return err
			}
			palette := theme.Builtin()
			if p := c.String("palette"); p != "" {
				palette, err = theme.LoadGPL(p)
				if err != nil {
					return err
				}
			}
			model := tui.NewModel(comp, theme.New(palette))
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}
