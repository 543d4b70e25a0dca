package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"wormz_server/logic"
	"wormz_server/network"
	"wormz_server/storage"
)

func main() {
	// 1. Environment
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	// 2. Load Config
	cfg := logic.DefaultConfig()
	cfgPath := envOr("WORMZ_CONFIG", "game_config.json")
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			log.Fatalf("parse config %s: %v", cfgPath, err)
		}
	} else {
		log.Printf("config %s not found, using defaults", cfgPath)
	}
	logic.ClampGameConfig(cfg)

	// 3. Settlement ledger (the wallet collaborator boundary)
	var sink logic.SettlementSink
	if dbPath := os.Getenv("WORMZ_DB"); dbPath != "" {
		store, err := storage.Open(dbPath)
		if err != nil {
			log.Fatalf("open settlement store: %v", err)
		}
		defer store.Close()
		sink = store
		log.Printf("settlement ledger at %s", dbPath)
	} else {
		log.Println("WORMZ_DB not set, settlements are not recorded")
	}

	// 4. Matchmaking registry
	manager := network.NewManager(cfg, sink)
	defer manager.Shutdown()

	// 5. Router Setup
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		network.ServeWs(manager, w, r)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 6. Start Server
	addr := envOr("WORMZ_ADDR", ":8080")
	log.Printf("WORMZ server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("ListenAndServe:", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
