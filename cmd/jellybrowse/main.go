// Command jellybrowse browses a Jellyfin music library from the terminal and
// serves it to media hosts over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmagar/jellybrowse/internal/completion"
	"github.com/jmagar/jellybrowse/internal/config"
	"github.com/jmagar/jellybrowse/internal/model"
	"github.com/jmagar/jellybrowse/internal/ui"
)

var errNoCommand = errors.New("no command given")

func main() {
	args, p := config.ParseArgs()
	if p.Subcommand() == nil {
		p.WriteHelp(os.Stdout)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, args, os.Stdout)
	stop()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

// run resolves configuration, wires the application and executes the
// selected subcommand, writing its output to out.
func run(ctx context.Context, args *model.Args, out io.Writer) error {
	if args.Completion != nil {
		if args.Completion.Shell == "" {
			completion.Usage(out)
			return nil
		}
		return completion.Write(out, args.Completion.Shell)
	}

	cfg, err := config.Resolve(args)
	if err != nil {
		return err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return err
	}
	if err := config.AttachDeviceID(cfg, stateDir); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	r := &renderer{out: out, json: args.JSON}
	if !ui.IsTerminal(out) {
		r.width = -1
	}
	switch {
	case args.Serve != nil:
		return a.serve(ctx, out)
	case args.Root != nil:
		return a.root(ctx, r, args.Root)
	case args.Children != nil:
		return a.children(ctx, r, args.Children)
	case args.Item != nil:
		return a.item(ctx, r, args.Item)
	case args.Search != nil:
		return a.search(ctx, r, args.Search)
	case args.Play != nil:
		return a.play(ctx, r, args.Play)
	case args.Probe != nil:
		return a.probe(ctx, r, args.Probe)
	default:
		return fmt.Errorf("%w; run jellybrowse --help", errNoCommand)
	}
}
