package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	callx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/agents/call"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/availability"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/agent/policy"
	statex "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/state"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/api"
	configx "github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/config"
	"github.com/tanpawarit/Chative-Sales-Call-Agent/pkg/ultravox"
)

type archiveSwitch struct {
	Enabled bool `default:"false"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service that launches calls and answers tool callbacks",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	serverCfg, err := configx.New[api.Config]("SERVER")
	if err != nil {
		return err
	}

	loc, err := calendarLocation()
	if err != nil {
		return err
	}

	var opts []callx.Option
	archive, err := newArchive()
	if err != nil {
		return err
	}
	if archive != nil {
		opts = append(opts, callx.WithArchive(archive))
	}

	bridge, err := callx.New(statex.NewMemoryStore(), policy.NewEngine(), availability.New(loc), opts...)
	if err != nil {
		return fmt.Errorf("create bridge: %w", err)
	}

	var launcher api.CallLauncher
	if strings.TrimSpace(serverCfg.PublicURL) != "" {
		l, err := newLauncher(bridge, serverCfg.PublicURL, loc)
		if err != nil {
			return err
		}
		launcher = l
	} else {
		log.Warn().Msg("SERVER_PUBLIC_URL is not set, call launching disabled")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.Serve(ctx, *serverCfg, api.NewRouter(bridge, launcher))
}

func newArchive() (statex.Archive, error) {
	sw, err := configx.New[archiveSwitch]("ARCHIVE")
	if err != nil {
		return nil, err
	}
	if !sw.Enabled {
		return nil, nil
	}

	archiveCfg, err := configx.New[statex.UpstashArchiveConfig]("ARCHIVE")
	if err != nil {
		return nil, err
	}
	archive, err := statex.NewUpstashArchive(*archiveCfg)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	log.Info().Msg("call archive enabled")
	return archive, nil
}

func newLauncher(bridge *callx.Bridge, publicURL string, loc *time.Location) (*callx.Launcher, error) {
	uvCfg, err := configx.New[ultravox.Config]("ULTRAVOX")
	if err != nil {
		return nil, err
	}
	client, err := ultravox.NewClient(*uvCfg)
	if err != nil {
		return nil, fmt.Errorf("create ultravox client: %w", err)
	}

	defaults, err := configx.New[statex.FixedDetails]("CALL")
	if err != nil {
		return nil, err
	}

	return callx.NewLauncher(client, bridge, callx.LauncherConfig{
		PublicURL: publicURL,
		Defaults:  *defaults,
		Location:  loc,
	})
}

func calendarLocation() (*time.Location, error) {
	calCfg, err := configx.New[availability.Config]("CALENDAR")
	if err != nil {
		return nil, err
	}
	return calCfg.Location()
}
