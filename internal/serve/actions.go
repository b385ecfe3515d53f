package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/web-clipper/internal/app"
	"github.com/dtnitsch/web-clipper/pkg/server"
	"github.com/urfave/cli/v2"
)

// ServeAction runs the local clipping server until interrupted.
func ServeAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}

	nb, database, err := app.OpenNotebook(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(app.NewClipper(cfg), nb)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
