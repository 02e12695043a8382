package mk

import (
	"github.com/itchio/junction"
	"github.com/itchio/junction/comm"
	"github.com/itchio/junction/mansion"
	"github.com/pkg/errors"
)

var args = struct {
	path   *string
	target *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("mk", "Create a junction redirecting <path> to <target>")
	args.path = cmd.Arg("path", "Where the junction lives (created if absent, must be an empty directory otherwise)").Required().String()
	args.target = cmd.Arg("target", "Existing directory the junction points to").Required().String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.path, *args.target))
}

func Do(ctx *mansion.Context, path string, target string) error {
	comm.Debugf("mk %s -> %s", path, target)

	err := junction.Create(path, target)
	if err != nil {
		return errors.WithStack(err)
	}

	comm.Result(&mansion.JunctionCreatedResult{
		Type:   "junction-created",
		Path:   path,
		Target: target,
	})
	comm.Statf("%s now redirects to %s", path, target)
	return nil
}
