package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/acorde-sonar/internal/server"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recognizer over HTTP",
		Long: `Start an HTTP server exposing the recognizer.

Routes:
  GET  /health            liveness probe
  GET  /api/v1/catalog    chords of the active catalog
  POST /api/v1/classify   {"samples": [...], "sample_rate": 44100}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recognizer, err := newRecognizer(v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(serverConfig(v), recognizer).ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", server.DefaultConfig().Addr, "listen address")
	addAnalysisFlags(cmd.Flags())
	return cmd
}
