// exactscribed is the standalone server binary, for deployments that only
// need the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exactscribe/internal/core/config"
	"exactscribe/internal/core/version"
	"exactscribe/internal/server"
)

func main() {
	port := flag.Int("port", 0, "HTTP listen port (default: 8080)")
	pin := flag.String("pin", "", "PIN for a sealed API key")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("exactscribed %s\n", version.Version)
		return
	}

	cfg := config.LoadOrDefault()
	if !config.Exists() {
		log.Printf("Warning: no config file found, using defaults. Run 'exactscribe init' to create one.")
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	apiKey, err := cfg.ResolveAPIKey(*pin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.NewServer(cfg, apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
