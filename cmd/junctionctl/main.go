package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/itchio/junction/cmd/check"
	"github.com/itchio/junction/cmd/mk"
	"github.com/itchio/junction/cmd/rm"
	"github.com/itchio/junction/cmd/target"
	"github.com/itchio/junction/comm"
	"github.com/itchio/junction/mansion"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	version = "head" // set by ldflags on CI release builds
	commit  = ""     // set by ldflags on CI release builds

	app = kingpin.New("junctionctl", "Create, inspect and remove NTFS junction points")
)

var appArgs = struct {
	json    *bool
	quiet   *bool
	verbose *bool
	panic   *bool
}{
	app.Flag("json", "Enable machine-readable JSON-lines output").Short('j').Bool(),
	app.Flag("quiet", "Hide non-essential messages").Short('q').Bool(),
	app.Flag("verbose", "Display as much extra info as possible").Short('v').Bool(),
	app.Flag("panic", "Panic instead of printing errors").Hidden().Bool(),
}

// Each command specifies its own arguments and flags in its own package.
func registerCommands(ctx *mansion.Context) {
	mk.Register(ctx)
	target.Register(ctx)
	rm.Register(ctx)
	check.Register(ctx)
}

func versionString() string {
	if commit != "" {
		return fmt.Sprintf("%s, built from %s", version, commit)
	}
	return version
}

func main() {
	app.HelpFlag.Short('h')
	app.Version(versionString())
	app.VersionFlag.Short('V')

	ctx := mansion.NewContext(app)
	ctx.Version = version
	ctx.Commit = commit
	ctx.VersionString = versionString()
	registerCommands(ctx)

	cmd, err := app.Parse(os.Args[1:])
	log.SetFlags(0)

	comm.Configure(*appArgs.quiet, *appArgs.verbose, *appArgs.json, *appArgs.panic)
	ctx.Quiet = *appArgs.quiet
	ctx.Verbose = *appArgs.verbose
	ctx.JSON = *appArgs.json

	level := slog.LevelInfo
	if ctx.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(comm.NewSlogHandler(level)))

	fullCmd := kingpin.MustParse(cmd, err)
	if do, ok := ctx.Commands[fullCmd]; ok {
		do(ctx)
		return
	}
	comm.Dief("unknown command: %s", fullCmd)
}
