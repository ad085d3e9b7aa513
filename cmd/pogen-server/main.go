// Command pogen-server serves purchase order PDFs over HTTP.
//
//	pogen-server -config pogen.yaml
//
// Endpoints:
//
//   - POST /api/v1/purchase-orders/pdf : render an order, respond with the PDF
//   - GET /api/v1/purchase-orders/next-number : the next assigned PO number
//   - GET /healthz
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/config"
	"github.com/kovanlabs/pogen/draft"
	"github.com/kovanlabs/pogen/httpapi"
)

func main() {
	app := &cli.App{
		Name:  "pogen-server",
		Usage: "serve purchase order PDFs over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultPath,
				Usage:   "configuration file; built-in defaults apply when it does not exist",
				EnvVars: []string{"POGEN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address, overrides server.addr",
				EnvVars: []string{"POGEN_ADDR"},
			},
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pogen-server: %v\n", err)
		os.Exit(1)
	}
}

func serve(cCtx *cli.Context) error {
	cfg, err := config.LoadOrDefault(cCtx.String("config"))
	if err != nil {
		return err
	}
	if addr := cCtx.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	log, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	composer := pogen.New(append(cfg.ComposerOptions(), pogen.WithLogger(log))...)
	seq := draft.NewSequence(cfg.Server.SequenceStart, time.Now)
	api := httpapi.NewServer(composer, cfg.DraftDefaults(), seq, httpapi.WithLogger(log))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", srv.Addr, "next_po", seq.Peek())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
