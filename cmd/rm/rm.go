package rm

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
	cmd := ctx.App.Command("rm", "Detach a junction, leaving a plain empty directory behind")
	args.path = cmd.Arg("path", "Junction to detach").Required().String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.path))
}

func Do(ctx *mansion.Context, path string) error {
	comm.Debugf("rm %s", path)

	err := junction.Delete(path)
	if err != nil {
		return errors.WithStack(err)
	}

	comm.Result(&mansion.JunctionRemovedResult{
		Type: "junction-removed",
		Path: path,
	})
	comm.Statf("%s is a plain directory again", path)
	return nil
}
