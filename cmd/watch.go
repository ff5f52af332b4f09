package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/CifLord/phasehull/internal/config"
	"github.com/CifLord/phasehull/internal/serve"
	"github.com/CifLord/phasehull/internal/telemetry"
	"github.com/CifLord/phasehull/internal/ui"
	"github.com/CifLord/phasehull/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the hull whenever the catalog changes",
	Long: "Builds the hull, then watches the catalog file and rebuilds on every\n" +
		"edit. With --serve, the MCP query server runs alongside and always\n" +
		"answers against the latest build.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("serve", false, "run the MCP query server alongside")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
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

	var srv *serve.Server
	if withServe, _ := cmd.Flags().GetBool("serve"); withServe {
		srv = serve.NewServer(pd, cfg.Serve.Port, em)
		if err := srv.Start(cmd.Context()); err != nil {
			return err
		}
		defer srv.Stop(cmd.Context()) //nolint:errcheck // shutdown on exit
		p.ServeStarted(cfg.Serve.Port)
	}

	w, err := watch.NewWatcher(catalogPath(cfg))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	p.WatchStarted(catalogPath(cfg))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-sig:
			return nil
		case <-cmd.Context().Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind == watch.ChangeRemoved {
				p.Error("catalog removed; keeping last build")
				continue
			}

			p.Rebuild(change.File)
			_ = em.Emit(telemetry.Event{
				Timestamp: time.Now(),
				Kind:      telemetry.KindRebuild,
				Data:      map[string]string{"file": change.File},
			})

			next, err := loadAndBuild(cfg, em, p)
			if err != nil {
				p.Error(err.Error())
				continue
			}
			pd = next
			if srv != nil {
				srv.SetDiagram(pd)
			}
			p.BuildDone(pd)
		}
	}
}
