package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/serve"
	"github.com/CifLord/phasehull/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve hull queries as MCP tools over SSE/HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	p := ui.New()

	em, err := openEmitter(cfg)
	if err != nil {
		return err
	}
	defer em.Close()

	pd, err := loadAndBuild(cfg, em, p)
	if err != nil {
		return err
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Serve.Port
	}

	srv := serve.NewServer(pd, port, em)
	if err := srv.Start(cmd.Context()); err != nil {
		return err
	}
	p.ServeStarted(port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
	case <-cmd.Context().Done():
	}
	return srv.Stop(cmd.Context())
}
