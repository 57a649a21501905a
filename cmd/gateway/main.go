// Command gateway starts the REST gateway process: it dials the
// configured chain connections, warms their metadata caches, and
// serves the representative HTTP endpoint set (api/http) over them.
// Shaped after the teacher's cmd/indexer/main.go: flag parsing for
// overrides, layered config loading, logger construction, a dialed
// connection per chain, and signal-driven graceful shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	gatewayhttp "github.com/subscale/rest-gateway/api/http"
	"github.com/subscale/rest-gateway/internal/block"
	"github.com/subscale/rest-gateway/internal/chain"
	"github.com/subscale/rest-gateway/internal/config"
	"github.com/subscale/rest-gateway/internal/correlate"
	"github.com/subscale/rest-gateway/internal/fee"
	"github.com/subscale/rest-gateway/internal/logger"
	"github.com/subscale/rest-gateway/internal/metadata"
	"github.com/subscale/rest-gateway/internal/rpc"
)

var version = "dev"

func main() {
	var (
		configFile  = flag.String("config", "", "Path to configuration file (YAML)")
		showVersion = flag.Bool("version", false, "Show version information and exit")
		bindHost    = flag.String("bind-host", "", "HTTP bind host")
		port        = flag.Int("port", 0, "HTTP bind port")
		primaryURL  = flag.String("primary-chain-url", "", "Primary (relay) chain RPC URL")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("gateway version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *bindHost, *port, *primaryURL, *logLevel)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting gateway",
		zap.String("version", version),
		zap.String("bindAddress", cfg.Address()),
		zap.String("primaryChainUrl", cfg.PrimaryChainURL),
		zap.Int("auxiliaryChains", len(cfg.MultiChainURLs)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service, closeChains, err := buildService(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build chain connections", zap.Error(err))
	}
	defer closeChains()

	server := gatewayhttp.NewServer(cfg.Address(), service, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case sig := <-sigChan:
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			log.Error("gateway server stopped with error", zap.Error(err))
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop gateway server gracefully", zap.Error(err))
	}
	log.Info("gateway stopped")
}

func applyFlags(cfg *config.Config, bindHost string, port int, primaryURL, logLevel string) {
	if bindHost != "" {
		cfg.BindHost = bindHost
	}
	if port > 0 {
		cfg.Port = port
	}
	if primaryURL != "" {
		cfg.PrimaryChainURL = primaryURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

// buildService dials every configured chain, warms its metadata cache
// at the current finalized head, and wires the block assembler and
// (when both a relay and an Asset Hub are configured) the dual-chain
// correlator. It returns a cleanup func that closes every dialed
// connection.
func buildService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gatewayhttp.Service, func(), error) {
	registry := chain.Default()
	service := &gatewayhttp.Service{
		Registry: registry,
		Chains:   make(map[chain.Type]*gatewayhttp.ChainHandle),
		Logger:   log,
	}

	type dialSpec struct {
		url string
		typ chain.Type
	}
	specs := []dialSpec{{url: cfg.PrimaryChainURL, typ: chain.TypeRelay}}
	for _, cu := range cfg.MultiChainURLs {
		specs = append(specs, dialSpec{url: cu.URL, typ: cu.ChainType})
	}

	var clients []*rpc.Client
	closeAll := func() {
		for _, c := range clients {
			_ = c.Close()
		}
	}

	for _, spec := range specs {
		client, err := rpc.Dial(ctx, rpc.Config{Endpoint: spec.url, Logger: logger.WithComponent(log, string(spec.typ))})
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("dial %s chain at %s: %w", spec.typ, spec.url, err)
		}
		clients = append(clients, client)

		props, err := client.SystemProperties(ctx)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("fetch system properties for %s chain: %w", spec.typ, err)
		}

		mdCache := metadata.NewCache(client, logger.WithComponent(log, "metadata-cache"))
		finalized, err := client.GetFinalizedHead(ctx)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("fetch finalized head for %s chain: %w", spec.typ, err)
		}
		if _, err := mdCache.At(ctx, finalized.Hash); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("warm metadata cache for %s chain: %w", spec.typ, err)
		}

		handle := &gatewayhttp.ChainHandle{
			Type:       spec.typ,
			Client:     client,
			Metadata:   mdCache,
			SS58Prefix: props.SS58Prefix,
			Assembler: &block.Assembler{
				Facade:      client,
				Metadata:    mdCache,
				FeeCache:    fee.NewCache(),
				SS58Prefix:  props.SS58Prefix,
				Concurrency: cfg.BlockFetchConcurrency,
			},
		}
		service.Chains[spec.typ] = handle
	}

	relay, hasRelay := service.Chains[chain.TypeRelay]
	assetHub, hasAssetHub := service.Chains[chain.TypeAssetHub]
	if hasRelay && hasAssetHub {
		service.Correlator = &correlate.Correlator{
			Relay:        relay.Client,
			AssetHub:     assetHub.Client,
			RelayMeta:    relay.Metadata,
			AssetHubMeta: assetHub.Metadata,
			SS58Prefix:   assetHub.SS58Prefix,
		}
		service.RelayType = chain.TypeRelay
		service.AssetHubType = chain.TypeAssetHub
	}

	return service, closeAll, nil
}
