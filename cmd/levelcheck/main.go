// Command levelcheck validates and summarizes level catalog files.
//
//	levelcheck validate [files...]   check catalog files (JSON or YAML)
//	levelcheck analyze [catalogs...] print per-level statistics
//	levelcheck trace [moves...]      replay moves against one level
//	levelcheck export [name]         write a catalog into the levels directory
//
// Without file arguments validate and analyze scan the levels directory
// (-levels-dir, LEVELS_DIR, default "levels"). trace and export resolve
// catalogs by name the way the server does.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/arrowbot/game/catalog"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func levelsDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "levels-dir",
		Usage:   "directory scanned when no files are given",
		Value:   "levels",
		Sources: cli.EnvVars("LEVELS_DIR"),
	}
}

func catalogFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "catalog",
		Usage: "catalog name",
		Value: catalog.ClassicID,
	}
}

// newApp builds the command tree writing its report to w
func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "levelcheck",
		Usage:  "validate and analyze arrow bot level catalogs",
		Writer: w,
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check catalog files against the level rules",
				ArgsUsage: "[files...]",
				Flags:     []cli.Flag{levelsDirFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := resolveFiles(cmd.Args().Slice(), cmd.String("levels-dir"))
					if err != nil {
						return err
					}
					return runValidate(w, files)
				},
			},
			{
				Name:      "analyze",
				Usage:     "print grid size, obstacles, distance and density per level",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					levelsDirFlag(),
					&cli.BoolFlag{
						Name:  "classic",
						Usage: "analyze the built-in classic catalog",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Bool("classic") {
						return runAnalyzeClassic(w)
					}
					files, err := resolveFiles(cmd.Args().Slice(), cmd.String("levels-dir"))
					if err != nil {
						return err
					}
					return runAnalyze(w, files)
				},
			},
			{
				Name:      "trace",
				Usage:     "replay a move list against one level and print every step",
				ArgsUsage: "[up|down|left|right...]",
				Flags: []cli.Flag{
					levelsDirFlag(),
					catalogFlag(),
					&cli.IntFlag{
						Name:  "level",
						Usage: "level number, starting at 1",
						Value: 1,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					manager, err := openManager(cmd.String("levels-dir"))
					if err != nil {
						return err
					}
					return runTrace(w, manager, cmd.String("catalog"), int(cmd.Int("level")), cmd.Args().Slice())
				},
			},
			{
				Name:      "export",
				Usage:     "write a catalog into the levels directory as JSON or YAML",
				ArgsUsage: "[name]",
				Flags: []cli.Flag{
					levelsDirFlag(),
					catalogFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "json or yaml",
						Value: string(catalog.FormatJSON),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					format := catalog.Format(cmd.String("format"))
					if format != catalog.FormatJSON && format != catalog.FormatYAML {
						return fmt.Errorf("unsupported format %q", format)
					}
					manager, err := catalog.NewManager(cmd.String("levels-dir"))
					if err != nil {
						return err
					}
					return runExport(w, manager, cmd.String("catalog"), cmd.Args().First(), format)
				},
			},
		},
	}
}
