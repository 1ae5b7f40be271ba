// Package cli implements the hfquery command, which runs height field queries described by scene files.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagScene    = "scene"
	flagDebug    = "debug"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
	flagPretty   = "pretty"
	flagFormat   = "format"
)

// NewApp returns a new app with the query commands, Writer set to out, and ErrWriter set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "hfquery",
		Usage:           "run collision and distance queries between a height field and a shape",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagScene,
				Aliases: []string{"s"},
				Usage:   "load the scene from `FILE` (YAML or JSON)",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "minimum `LEVEL` to log (debug, info, warn, error); --debug takes precedence",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "write logs to a rotating `FILE` instead of stdout",
			},
			&cli.BoolFlag{
				Name:  flagPretty,
				Usage: "indent the JSON output",
			},
			&cli.StringFlag{
				Name:  flagFormat,
				Usage: "print results as `FORMAT` (json or table)",
				Value: formatJSON,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   queryCollide,
				Usage:  "find contacts between the height field and the shape",
				Action: CollideAction,
			},
			{
				Name:   queryIntersect,
				Usage:  "report whether the height field and the shape overlap",
				Action: IntersectAction,
			},
			{
				Name:   queryDistance,
				Usage:  "measure the distance between the height field and the shape",
				Action: DistanceAction,
			},
			{
				Name:   queryInfo,
				Usage:  "describe the height field hierarchy",
				Action: InfoAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of scene files",
				Action: SchemaAction,
			},
		},
	}
}
