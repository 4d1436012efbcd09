package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mchmarny/ppinet/pkg/api"
	urfave "github.com/urfave/cli/v3"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080

	portFlag    = "port"
	addressFlag = "address"
)

func newServerCmd() *urfave.Command {
	return &urfave.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Serve the analyses over HTTP",
		Flags: []urfave.Flag{
			&urfave.IntFlag{
				Name:    portFlag,
				Usage:   "Port on which the server will listen",
				Value:   serverPortDefault,
				Sources: urfave.EnvVars(envPrefix + "PORT"),
			},
			&urfave.StringFlag{
				Name:  addressFlag,
				Usage: "Interface on which the server will listen",
				Value: "127.0.0.1",
			},
		},
		Action: cmdStartServer,
	}
}

func cmdStartServer(ctx context.Context, cmd *urfave.Command) error {
	a, err := loadAnalyzer(ctx, cmd)
	if err != nil {
		return err
	}

	cfg := getConfig(cmd)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	address := fmt.Sprintf("%s:%d", cmd.String(addressFlag), cmd.Int(portFlag))
	s := &http.Server{
		Addr: address,
		Handler: api.NewRouter(&api.RouterDeps{
			Analyzer: a,
			Version:  version,
			TopK:     cfg.Config.TopK,
		}),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error starting server", "error", err)
			stop()
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}
