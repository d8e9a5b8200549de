package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmagar/jellybrowse/internal/browser"
	"github.com/jmagar/jellybrowse/internal/helpers"
	"github.com/jmagar/jellybrowse/internal/logger"
	"github.com/jmagar/jellybrowse/internal/model"
	"github.com/jmagar/jellybrowse/internal/server"
	"github.com/jmagar/jellybrowse/internal/stream"
	"github.com/jmagar/jellybrowse/internal/ui"
)

const probeTimeout = 30 * time.Second

// await waits for a session request and converts a failed result into an
// error after rendering it in JSON mode.
func await[T any](ctx context.Context, r *renderer, f *browser.Future[browser.LibraryResult[T]]) (T, error) {
	res, err := f.Get(ctx)
	if err != nil {
		f.Cancel()
		var zero T
		return zero, err
	}
	if r.json {
		if err := r.printJSON(res); err != nil {
			return res.Value, err
		}
	}
	if !res.OK() {
		return res.Value, fmt.Errorf("%s (%d): %s", res.Code, int(res.Code), res.Error)
	}
	return res.Value, nil
}

func (a *app) serve(ctx context.Context, out io.Writer) error {
	pingErr := a.client.Ping(ctx)
	if pingErr != nil {
		a.log.Warn("Catalog server not reachable at startup",
			logger.String("server_url", a.client.BaseURL()),
			logger.Err(pingErr),
		)
	}
	a.printStartup(out, pingErr)
	srv := server.New(server.Config{
		Port:    a.cfg.ListenPort,
		Debug:   a.cfg.Debug,
		Version: version,
	}, a.session, a.hub, a.reg, a.log)
	return srv.Run(ctx)
}

// printStartup writes the serve banner: catalog connection, registered
// pages and the endpoints media hosts talk to.
func (a *app) printStartup(w io.Writer, pingErr error) {
	ui.Header(w, "jellybrowse "+version)

	ui.Section(w, "Catalog")
	ui.KeyValue(w, "Server", a.client.BaseURL(), ui.ColorGreen)
	ui.KeyValue(w, "User", a.cfg.UserID, "")
	ui.KeyValue(w, "Device", a.cfg.DeviceID, "")
	ui.KeyValue(w, "Pages", strings.Join(a.pages.Names(), ", "), ui.ColorPurple)
	if a.cfg.APILogPath != "" {
		ui.KeyValue(w, "API log", a.cfg.APILogPath, "")
	}
	if pingErr != nil {
		ui.Warning(w, "catalog server not reachable: "+pingErr.Error())
	} else {
		ui.Success(w, "catalog server reachable")
	}

	ui.Section(w, "Endpoints")
	base := "http://localhost:" + strconv.Itoa(a.cfg.ListenPort)
	ui.List(w, []string{
		base + "/library/root",
		base + "/library/events",
		base + "/metrics",
		base + "/health",
	}, ui.ColorCyan)
	fmt.Fprintln(w)
}

func (a *app) root(ctx context.Context, r *renderer, cmd *model.RootCmd) error {
	flags := browser.RootFlags{IsRecent: cmd.Recent, IsSuggested: cmd.Suggested}
	item, err := await(ctx, r, a.session.GetLibraryRoot(ctx, flags))
	if err != nil || r.json {
		return err
	}
	r.node(item)
	return nil
}

func (a *app) children(ctx context.Context, r *renderer, cmd *model.ChildrenCmd) error {
	items, err := await(ctx, r, a.session.GetChildren(ctx, cmd.Node, cmd.Page, cmd.PageSize))
	if err != nil || r.json {
		return err
	}
	r.items(items)
	return nil
}

func (a *app) item(ctx context.Context, r *renderer, cmd *model.ItemCmd) error {
	item, err := await(ctx, r, a.session.GetItem(ctx, cmd.Node))
	if err != nil || r.json {
		return err
	}
	r.node(item)
	return nil
}

// search acknowledges the query first, as a host would, then fetches the
// single result it announced.
func (a *app) search(ctx context.Context, r *renderer, cmd *model.SearchCmd) error {
	ack, err := a.session.Search(ctx, cmd.Query).Get(ctx)
	if err != nil {
		return err
	}
	if !ack.OK() {
		return fmt.Errorf("%s: %s", ack.Code, ack.Error)
	}
	items, err := await(ctx, r, a.session.GetSearchResult(ctx, cmd.Query, cmd.Page, cmd.PageSize))
	if err != nil || r.json {
		return err
	}
	r.items(items)
	return nil
}

func (a *app) play(ctx context.Context, r *renderer, cmd *model.PlayCmd) error {
	ids, err := helpers.ExpandArgs(cmd.Items)
	if err != nil {
		return err
	}
	req := make([]browser.MediaItem, len(ids))
	for i, id := range ids {
		req[i] = browser.MediaItem{MediaID: id}
	}
	items, err := await(ctx, r, a.session.AddMediaItems(ctx, req))
	if err != nil || r.json {
		return err
	}
	r.streams(items)
	return nil
}

func (a *app) probe(ctx context.Context, r *renderer, cmd *model.ProbeCmd) error {
	streamURL, err := a.policy.URL(cmd.Item)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	report, err := stream.Probe(ctx, &http.Client{}, streamURL)
	if err != nil {
		return err
	}
	if r.json {
		return r.printJSON(report)
	}
	r.report(report)
	return nil
}
