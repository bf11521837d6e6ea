package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/httpapi"
	seqsignal "github.com/seqctl/seqctl/internal/signal"
)

// AddServeCommand registers `seqctl serve`.
func AddServeCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only HTTP API: /api/status, /api/events, /api/stream/<task>",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 8080, "port to listen on")
	cmd.Flags().String("ui", "", "optional directory of static files to serve at /")
	root.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	uiDir, _ := cmd.Flags().GetString("ui")

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}

	srv := httpapi.New(app.Project, app.Config, app.Log, app.Viewport, Logger(), uiDir)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	handler := seqsignal.NewHandler(cmd.Context())
	defer handler.Stop()

	errc := make(chan error, 1)
	go func() {
		Logger().Info().Int("port", port).Msg("serving seqctl HTTP API")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case <-handler.Interrupted():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
