package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maestro/pkg/config"
	"maestro/pkg/llm"
	_ "maestro/pkg/llm/autoload" // auto-register completion providers
	"maestro/pkg/monitor"
	"maestro/pkg/search"
	"maestro/pkg/server"
	"maestro/pkg/store"
	"maestro/pkg/tools"
)

func main() {
	monitor.PrintBanner()

	// --- 0. Configuration ---
	cfg, sys, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v\n", err)
	}

	monitor.SetupSlog(sys.LogLevel)

	// --- 1. Completion providers ---
	selector, err := llm.NewFromConfig(cfg.LLM, cfg.Defaults, sys)
	if err != nil {
		log.Fatalf("❌ Failed to init LLM providers: %v\n", err)
	}

	// --- 2. Persistence ---
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v\n", err)
	}
	defer st.Close()

	// --- 3. Tools ---
	registry := tools.NewRegistry()
	var chain *search.Chain
	if sys.EnableTools {
		chain = search.NewChain(cfg.Search, sys)
		registry.Register(tools.NewLookupTool(chain))
	}

	// --- 4. Server ---
	mon := monitor.NewCLIMonitor()
	mon.Start()
	defer mon.Stop()

	srv := server.New(cfg, sys, st, selector, registry, mon)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("❌ Server failed: %v\n", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- 5. Live settings reload ---
	// Log level and search timeout take effect immediately; completion
	// clients capture their timeout at startup and need a restart.
	err = config.WatchSystem(ctx, "system.json", func(fresh *config.SystemConfig) {
		monitor.SetupSlog(fresh.LogLevel)
		if chain != nil {
			chain.SetAttemptTimeout(time.Duration(fresh.SearchTimeoutMs) * time.Millisecond)
		}
	})
	if err != nil {
		log.Printf("⚠️ Settings watcher disabled: %v\n", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("\nReceived shutdown signal. Stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown error: %v\n", err)
	}
	log.Println("Bye!")
}
