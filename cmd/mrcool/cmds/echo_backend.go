package cmds

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/mrcool/pkg/backend"
)

func newEchoBackendCommand() *cobra.Command {
	var (
		addr  string
		mode  string
		delay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "echo-backend",
		Short: "Run a local backend that echoes prompts, for development",
		Long: `Serves POST /chat with the same contract as the assistant endpoint.

Modes:
  strict  {"status":"success","response":"You said: ..."}
  echo    {"response":"You said: ..."}
  error   500 with a detail message
  empty   200 with {}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := backend.ParseEchoMode(mode)
			if err != nil {
				return err
			}

			mux := http.NewServeMux()
			mux.Handle("/chat", backend.NewEchoHandler(m, delay))
			srv := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}
			return runHTTPServer(cmd.Context(), srv, func() {
				log.Info().Str("addr", addr).Str("mode", string(m)).Dur("delay", delay).Msg("echo backend listening on /chat")
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8081", "Address to listen on")
	cmd.Flags().StringVar(&mode, "mode", string(backend.EchoModeStrict), "Reply mode: strict, echo, error or empty")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Delay before each reply")
	return cmd
}

func runHTTPServer(ctx context.Context, srv *http.Server, onStart func()) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		onStart()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
