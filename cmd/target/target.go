package target

import (
	"github.com/itchio/junction"
	"github.com/itchio/junction/comm"
	"github.com/itchio/junction/mansion"
	"github.com/pkg/errors"
)

var args = struct {
	path *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("target", "Print the directory a junction redirects to")
	args.path = cmd.Arg("path", "Junction to inspect").Required().String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.path))
}

func Do(ctx *mansion.Context, path string) error {
	dest, err := junction.GetTarget(path)
	if err != nil {
		return errors.WithStack(err)
	}

	comm.ResultOrPrint(&mansion.JunctionTargetResult{
		Type:   "junction-target",
		Path:   path,
		Target: dest,
	}, func() {
		comm.Logf("%s", dest)
	})
	return nil
}
