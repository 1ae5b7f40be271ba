package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/terrain/collision"
	"go.viam.com/terrain/logging"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

var warningPrefix = color.New(color.FgYellow, color.Bold)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	warningPrefix.Fprint(w, "Warning: ")
	printf(w, format, a...)
}

func printJSON(c *cli.Context, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if c.Bool(flagPretty) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, "encoding result")
	}
	printf(c.App.Writer, "%s", data)
	return nil
}

// printResult writes v in the format chosen by --format. render builds the table form.
func printResult(c *cli.Context, v interface{}, render func() string) error {
	switch format := c.String(flagFormat); format {
	case formatJSON:
		return printJSON(c, v)
	case formatTable:
		printf(c.App.Writer, "%s", render())
		return nil
	default:
		return errors.Errorf("unknown output format %q, expected %q or %q", format, formatJSON, formatTable)
	}
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

func renderCollision(res *collision.CollisionResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Height field", "Cell", "Shape", "Position", "Normal", "Depth"})
	t.AppendRows(lo.Map(res.Contacts(), func(ct collision.Contact, i int) table.Row {
		return table.Row{i, ct.Object1, ct.B1, ct.Object2, formatVector(ct.Position), formatVector(ct.Normal), ct.PenetrationDepth}
	}))
	t.AppendFooter(table.Row{"", "", "", "", "", "lower bound", res.DistanceLowerBound})
	return t.Render()
}

func renderDistance(res *collision.DistanceResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Height field", "Cell", "Shape", "Distance", "Point 1", "Point 2"})
	if res.Found() {
		t.AppendRow(table.Row{
			res.Object1, res.B1, res.Object2, res.MinDistance,
			formatVector(res.NearestPoints[0]), formatVector(res.NearestPoints[1]),
		})
	}
	return t.Render()
}

func renderInfo(info heightFieldInfo) string {
	t := table.NewWriter()
	t.AppendRows([]table.Row{
		{"label", info.Label},
		{"volume", info.Volume},
		{"cells", info.Cells},
		{"nodes", info.Nodes},
		{"min height", info.MinHeight},
		{"max height", info.MaxHeight},
		{"mean height", info.MeanHeight},
		{"height std dev", info.HeightStdDev},
		{"root", info.Root},
	})
	return t.Render()
}

func newLogger(c *cli.Context) (logging.Logger, error) {
	level, err := logging.LevelFromString(c.String(flagLogLevel))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing --%s", flagLogLevel)
	}
	if c.Bool(flagDebug) {
		level = logging.DEBUG
	}
	if path := c.String(flagLogFile); path != "" {
		return logging.NewFileLogger("hfquery", level, logging.FileConfig{
			Path:       path,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		}), nil
	}
	var logger logging.Logger
	if level == logging.DEBUG {
		logger = logging.NewDebugLogger("hfquery")
	} else {
		logger = logging.NewLogger("hfquery")
		logger.SetLevel(level)
	}
	return logger, nil
}
