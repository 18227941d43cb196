package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"edinet_xbrl/pkg/api/xbrl"
	"edinet_xbrl/pkg/core/config"
	"edinet_xbrl/pkg/core/store"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/xbrl.yaml", "path to the YAML config file")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Snapshot cache: Postgres when enabled, files otherwise
	if cfg.UseDatabase {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Database unavailable, using file cache: %v\n", err)
		} else {
			defer store.Close()
		}
	}
	cache := store.NewSnapshotCache(store.GetPool(), cfg.CacheDir)

	handler := xbrl.NewHandler(catalog, cache)
	http.HandleFunc("/api/xbrl/extract", handler.HandleExtract)
	http.HandleFunc("/api/xbrl/listing", handler.HandleListing)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	fmt.Printf("[API] Listening on %s\n", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
