package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dyike/ChartPilotGo/config"
	"github.com/dyike/ChartPilotGo/internal/agent"
	"github.com/dyike/ChartPilotGo/internal/bridge"
	"github.com/dyike/ChartPilotGo/internal/capture"
	"github.com/dyike/ChartPilotGo/internal/debug"
	"github.com/dyike/ChartPilotGo/internal/ledger"
	"github.com/dyike/ChartPilotGo/internal/news"
	"github.com/dyike/ChartPilotGo/internal/oracle"
	"github.com/dyike/ChartPilotGo/internal/provider"
	"github.com/dyike/ChartPilotGo/internal/ticker"
)

// seedPrice anchors the synthetic provider and ticker fallback before any
// live quote arrives.
const seedPrice = 2000.0

// redrawInterval is the dashboard repaint period.
const redrawInterval = 2 * time.Second

// RunAgent wires every component and runs the agent loop until interrupted.
func RunAgent(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := context.Background()

	if !cfg.Simulated {
		ok, err := ConfirmLiveMode(cfg.BridgeURL)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Falling back to simulated mode.")
			cfg.Simulated = true
		}
	}

	debugger := debug.NewEinoDebugger(cfg)
	if err := debugger.Initialize(); err != nil {
		log.Printf("[Run] eino debug disabled: %v", err)
	}

	prov := buildProvider(cfg)
	orchestrator := capture.New(prov)

	chatModel, err := oracle.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init oracle: %w", err)
	}
	gatewayOpts := []oracle.Option{oracle.WithSkipGrounding(cfg.SkipSearchGrounding)}
	if cfg.NewsEnabled {
		fetcher := news.NewFetcher()
		gatewayOpts = append(gatewayOpts, oracle.WithHeadlines(fetcher.Headlines))
	}
	gateway := oracle.NewGateway(chatModel, gatewayOpts...)

	book := ledger.New(cfg.InitialBalance)
	book.Start()
	defer book.Stop()

	schedulerOpts := []agent.Option{agent.WithViewResetter(prov)}
	if !cfg.Simulated {
		schedulerOpts = append(schedulerOpts,
			agent.WithDispatcher(bridge.NewClient(cfg.BridgeURL, cfg.BridgeSecret, cfg.BridgeEnabled)))
	}
	scheduler := agent.New(cfg, orchestrator, gateway, book, schedulerOpts...)

	feed := ticker.NewFeed(cfg.Symbol, seedPrice)
	feed.Start()
	defer feed.Stop()

	dashboard := NewDashboard(cfg.Symbol, scheduler)
	unsubscribe := book.Subscribe(dashboard.OnAccountUpdate)
	defer unsubscribe()

	ticks, stopTicks := feed.Subscribe()
	defer stopTicks()
	go func() {
		for t := range ticks {
			dashboard.OnTick(t)
		}
	}()

	scheduler.Activate()
	defer scheduler.Deactivate()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	redraw := time.NewTicker(redrawInterval)
	defer redraw.Stop()

	dashboard.Render()
	for {
		select {
		case <-redraw.C:
			dashboard.Render()
		case <-stop:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

// buildProvider picks the live Longport backend when credentials are present
// and falls back to synthetic charts otherwise.
func buildProvider(cfg *config.Config) provider.SnapshotProvider {
	if cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "" {
		p, err := provider.NewLongportProvider(cfg)
		if err == nil {
			log.Printf("[Run] using Longport market data for %s", cfg.Symbol)
			return p
		}
		log.Printf("[Run] Longport init failed, using synthetic charts: %v", err)
	}
	return provider.NewSyntheticProvider(cfg.Symbol, seedPrice)
}
