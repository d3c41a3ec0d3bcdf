package main

import (
	"fmt"
	"log"

	"github.com/rva-directmail/internal/config"
	"github.com/rva-directmail/internal/web"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	fmt.Println("=== Direct-Mail Report Server ===")

	var webConfig *web.Config
	if path := config.GetEnv("WEB_CONFIG", ""); path != "" {
		var err error
		webConfig, err = web.LoadConfig(path)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", path, err)
		}
	} else {
		webConfig = web.DefaultConfig()
	}

	server, err := web.NewServer(webConfig)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
