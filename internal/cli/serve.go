package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"exactscribe/internal/core/config"
	"exactscribe/internal/server"
)

var (
	servePort int
	servePIN  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP transcription server",
	Long: `Start an HTTP server that accepts transcription jobs via API.

Examples:
  exactscribe serve              # Start server on port 8080
  exactscribe serve -p 9000      # Start server on port 9000

API Endpoints:
  GET    /api/health        # Health check
  GET    /api/models        # Model catalog
  POST   /api/transcribe    # Queue a transcription (multipart upload)
  GET    /api/jobs          # List all jobs
  GET    /api/jobs/:id      # Get job status and transcript
  DELETE /api/jobs/:id      # Cancel or remove a job
  POST   /api/export        # Convert a transcript to txt/srt/json`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			exitErr(err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (default: 8080)")
	serveCmd.Flags().StringVar(&servePIN, "pin", "", "PIN for a sealed API key")

	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg := config.LoadOrDefault()

	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	apiKey, err := resolveKey(cfg, servePIN)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, apiKey)
	if err != nil {
		return err
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
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
