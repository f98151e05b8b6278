package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/oaiiae/addressbook/addressbook"
	"github.com/oaiiae/addressbook/cli/api"
	"github.com/oaiiae/addressbook/cli/commands"
	"github.com/oaiiae/addressbook/cli/logger"
)

// Set at link time.
var (
	version  = "dev"
	revision = ""
	created  = ""
)

// Options for the CLI. Pass `--port` or set the `SERVICE_PORT` env var.
type Options struct {
	logger.Options
	api.ServerOptions
	api.RouterOptions
	api.StoreOptions
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		var srv atomic.Pointer[http.Server]
		hooks.OnStart(func() {
			log := logger.New(&options.Options)
			metriks := metrics.NewSet()
			store := api.NewStore(&options.StoreOptions, log, metriks)
			handler := api.NewRouter(&options.RouterOptions, "Address Book", version, revision, created, store, metriks, log)
			server := api.NewServer(&options.ServerOptions, handler, log)
			srv.Store(server)

			log.Info("serving contacts", "addr", server.Addr, "file", options.DataFile)
			err := server.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				log.Error("failed to listen and serve", "err", err)
			} else {
				log.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			server := srv.Load()
			if server == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := server.Shutdown(ctx)
			if err != nil {
				slog.Warn("could not shutdown the server", "err", err)
			}
		})
	})

	root := cli.Root()
	root.Use = "addressbook"
	root.Short = "An address book kept in a JSON file; serves it over HTTP unless a command is given"
	root.Version = version
	root.SilenceUsage = true
	root.AddCommand(commands.New(open)...)

	cli.Run()
}

// open runs action on the address book selected by the process options.
func open(action commands.Action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var err error
		humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			log := logger.New(&options.Options)
			book := addressbook.New(api.NewStore(&options.StoreOptions, log, nil), log)
			err = action(cmd, args, book)
		})(cmd, args)
		return err
	}
}
