package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/fatih/color"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/assetserve/assetserve/server/config"
	"github.com/assetserve/assetserve/server/mimetype"
	"github.com/assetserve/assetserve/server/service"
)

const shutdownTimeout = 5 * time.Second

func createRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "assetserve",
		Short: "Serve a directory over HTTP with permissive CORS",
		Long: `
Serve a directory of static assets over HTTP.

assetserve exposes the working directory on port 9000 and adds
Access-Control-Allow-Origin: * to every response, so browser clients on any
origin (a locally hosted game, a prototype frontend) can load the files
without cross origin errors. Run it with no arguments from the directory
you want to serve.
`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runServe(context.Background(), cfg, os.Stdout); err != nil {
				initFatal(err, "starting server")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Server.Address, "address", cfg.Server.Address, "Address to listen on")
	rootCmd.PersistentFlags().StringVar(&cfg.Server.Root, "root", cfg.Server.Root, "Directory to serve")
	rootCmd.PersistentFlags().BoolVar(&cfg.Logging.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&cfg.Logging.JSON, "json", false, "Log in JSON format")

	return rootCmd
}

// runServe binds the listener, prints the banner, and serves until ctx is
// canceled or an interrupt signal arrives. The banner and all request logs
// go to out; nothing is written to out before a successful bind.
func runServe(ctx context.Context, cfg config.AssetserveConfig, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Logging, out)

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return errors.Wrapf(err, "bind %s", cfg.Server.Address)
	}

	printBanner(out, ln.Addr())

	handler := service.MakeHandler(http.Dir(cfg.Server.Root), mimetype.Default(), logger)
	srv := &http.Server{Handler: handler}

	var g run.Group
	g.Add(func() error {
		level.Debug(logger).Log("transport", "http", "address", ln.Addr().String(), "msg", "listening")
		return srv.Serve(ln)
	}, func(error) {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(sctx) //nolint:errcheck
	})
	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	if err := g.Run(); err != nil && !isShutdown(err) {
		return err
	}

	fmt.Fprintln(out, "\nServer stopped.")
	return nil
}

// isShutdown reports whether the run group exited for one of the orderly
// reasons: an interrupt signal, cancellation of the serve context, or the
// http server winding down.
func isShutdown(err error) bool {
	var sig run.SignalError
	return stderrors.As(err, &sig) ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, http.ErrServerClosed)
}

func newLogger(cfg config.LoggingConfig, w io.Writer) kitlog.Logger {
	output := kitlog.NewSyncWriter(w)
	var logger kitlog.Logger
	if cfg.JSON {
		logger = kitlog.NewJSONLogger(output)
	} else {
		logger = kitlog.NewLogfmtLogger(output)
	}
	if cfg.Debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowInfo())
	}
	return kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
}

func printBanner(out io.Writer, addr net.Addr) {
	port := addr.(*net.TCPAddr).Port
	fmt.Fprintln(out, "\n-----------------------------------------")
	color.New(color.FgGreen).Fprintf(out, "Server running at http://localhost:%d/\n", port)
	fmt.Fprintln(out, "-----------------------------------------")
	fmt.Fprintln(out, "Open your browser to view the game!")
	fmt.Fprintln(out, "Press Ctrl+C to stop the server")
	fmt.Fprintln(out)
}
