package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koenote/koenote-proxy/pkg/server"
)

func newServeCommand() *cobra.Command {
	var f configFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the proxy server (foreground)",
		Long: `Start the proxy server and block until SIGINT or SIGTERM.

Every koenote endpoint is forwarded to the backend URL. When a backend call
fails the response depends on the mode: production answers 500 with an error
body, development answers 200 with a mock payload.`,
		Example: `  # Forward to a backend
  koenote-proxy serve --backend-url https://api.example.com --api-key $KEY

  # Work on the UI without a backend
  koenote-proxy serve --mode development

  # Use a config file and JSON logs
  koenote-proxy serve -c koenote.yaml --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load(cmd)
			if err != nil {
				return err
			}

			log := newLogger(cmd, cfg)
			for _, w := range cfg.Warnings() {
				log.Warn(w)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, server.WithLogger(log)).Run(ctx)
		},
	}
	f.register(cmd)
	return cmd
}
