package check

import (
	"os"

	"github.com/itchio/junction"
	"github.com/itchio/junction/comm"
	"github.com/itchio/junction/mansion"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

var args = struct {
	paths *[]string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("check", "Report which of the given paths are junctions, and where they lead")
	args.paths = cmd.Arg("paths", "Paths to inspect").Required().Strings()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.paths))
}

func Do(ctx *mansion.Context, paths []string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Path", "Junction", "Target"})

	for _, path := range paths {
		dest, err := junction.GetTarget(path)
		isJunction := true
		if errors.Is(err, junction.ErrNotAJunction) {
			isJunction, dest, err = false, "", nil
		}
		if err != nil {
			return errors.WithStack(err)
		}

		comm.Result(&mansion.JunctionCheckResult{
			Type:     "junction-check",
			Path:     path,
			Junction: isJunction,
			Target:   dest,
		})

		verdict := "no"
		if isJunction {
			verdict = "yes"
		}
		table.Append([]string{path, verdict, dest})
	}

	if !comm.JsonEnabled() {
		table.Render()
	}
	return nil
}
