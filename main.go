// Command arrowbot starts the arrow robot puzzle game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, levels directory, run pacing, narration, debug
// logging, version output, and optional ngrok tunneling for easy external
// access during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/arrowbot/api"
	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/feedback"
	"github.com/wricardo/arrowbot/game/narration"
	"github.com/wricardo/arrowbot/game/progression"
	"github.com/wricardo/arrowbot/game/service"
	"github.com/wricardo/arrowbot/game/session"
	"github.com/wricardo/arrowbot/transport/mcp"
	"github.com/wricardo/arrowbot/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Arrow Bot Puzzle Server"
)

// Default pause between landed steps, long enough for a client to animate the move
const defaultStepDelay = 400 * time.Millisecond

// Configuration flags control how the server starts and which services are enabled.
var (
	port             = flag.Int("port", 8080, "HTTP server port")
	host             = flag.String("host", "localhost", "HTTP server host")
	levelsDir        = flag.String("levels-dir", getLevelsDirDefault(), "Directory containing level catalogs (JSON or YAML)")
	defaultCatalog   = flag.String("default-catalog", getDefaultCatalogDefault(), "Catalog used for sessions created without one")
	debug            = flag.Bool("debug", false, "Enable debug logging")
	version          = flag.Bool("version", false, "Show version information")
	stepDelay        = flag.Duration("step-delay", getStepDelayDefault(), "Pause after every robot step (0 disables)")
	autoAdvance      = flag.Bool("auto-advance", false, "Select the next level automatically after a success")
	narrationEnabled = flag.Bool("narration", true, "Publish narration and sound cues to WebSocket clients")
	ngrokEnabled     = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth        = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain      = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getLevelsDirDefault returns the default levels directory.
// It first honors the LEVELS_DIR environment variable, then falls back to "levels".
func getLevelsDirDefault() string {
	if dir := os.Getenv("LEVELS_DIR"); dir != "" {
		return dir
	}
	return "levels"
}

// getDefaultCatalogDefault honors DEFAULT_CATALOG, then falls back to the
// built-in classic catalog.
func getDefaultCatalogDefault() string {
	if name := os.Getenv("DEFAULT_CATALOG"); name != "" {
		return name
	}
	return catalog.ClassicID
}

// getStepDelayDefault honors STEP_DELAY (a Go duration such as "250ms").
func getStepDelayDefault() time.Duration {
	if v := os.Getenv("STEP_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		log.Printf("Warning: ignoring invalid STEP_DELAY %q: %v", v, err)
	}
	return defaultStepDelay
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  LEVELS_DIR, DEFAULT_CATALOG, STEP_DELAY, GEMINI_API_KEY, GEMINI_VOICE, NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -step-delay 0      # Run without pacing robot steps\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s mcp -port 9090     # Run MCP stdio server with internal HTTP on port 9090\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	// The hub exists before any session so feedback can reach WebSocket clients
	hub := websocket.NewHub()
	go hub.Run()

	gameService, err := initializeServices(hub)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(gameService, hub)
		return

	case "server", "http":
		runHTTPServer(gameService, hub)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// newMCPHandler exposes the MCP server over a plain POST endpoint
func newMCPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(gameService service.GameService, hub *websocket.Hub) {
	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", *host, *port)

	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", newMCPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		// Waiting runs hold the response for the whole paced run
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	ngrokShouldRun := *ngrokEnabled
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is cancelled
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	// Support both naming conventions for the token
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
		if authToken == "" {
			authToken = os.Getenv("NGROK_AUTH_TOKEN")
		}
	}

	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the catalog and session managers, the shared
// engine and the game service. It also starts a background cleanup routine
// to prune stale sessions.
func initializeServices(hub *websocket.Hub) (service.GameService, error) {
	catalogManager, err := catalog.NewManager(*levelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog manager: %w", err)
	}
	if *defaultCatalog != "" && *defaultCatalog != catalog.ClassicID {
		if err := catalogManager.SetDefault(*defaultCatalog); err != nil {
			return nil, fmt.Errorf("failed to set default catalog: %w", err)
		}
	}
	log.Printf("Default catalog: %s", catalogManager.GetDefault().ID())

	runner := engine.New()

	var opts []service.Option
	var voice narration.Voice
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := narration.NewGeminiVoice(context.Background(), narration.GeminiConfig{
			APIKey:    apiKey,
			VoiceName: os.Getenv("GEMINI_VOICE"),
		})
		if err != nil {
			log.Printf("Warning: Gemini voice disabled: %v", err)
		} else {
			voice = gemini
			opts = append(opts, service.WithExplainer(gemini))
			log.Println("Gemini narration enabled")
		}
	}

	if hub != nil {
		// Background runs end after their request returned; push the final state
		opts = append(opts, service.WithStateListener(hub.BroadcastToSession))
	}

	sessionManager := session.NewManager(newSessionFactory(hub, runner, voice))
	gameService := service.NewGameService(sessionManager, catalogManager, opts...)

	go sessionCleanupRoutine(sessionManager)
	go catalogReloadRoutine(catalogManager)

	return gameService, nil
}

// newSessionFactory builds a controller whose feedback is logged, broadcast
// to the session's WebSocket clients and, when enabled, narrated. Landed
// steps are held for the configured step delay.
func newSessionFactory(hub *websocket.Hub, runner engine.Runner, voice narration.Voice) session.Factory {
	return func(sessionID string, cat *catalog.Catalog) (*progression.Controller, func(), error) {
		channels := []feedback.Channel{feedback.NewLogger(sessionID)}
		var narrator *narration.Narrator
		if hub != nil {
			channels = append(channels, hub.Channel(sessionID))
			if *narrationEnabled {
				var opts []narration.Option
				if voice != nil {
					opts = append(opts, narration.WithVoice(voice))
				}
				narrator = narration.New(sessionID, cat.Len(), hub, opts...)
				channels = append(channels, narrator)
			}
		}

		async := feedback.NewAsync(feedback.Combine(channels...), feedback.DefaultQueueSize)
		cleanup := func() {
			async.Close()
			if narrator != nil {
				narrator.Close()
			}
		}

		ctrl, err := progression.New(cat,
			progression.WithRunner(runner),
			progression.WithFeedback(feedback.NewPaced(async, *stepDelay)),
			progression.WithAutoAdvance(*autoAdvance),
		)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return ctrl, cleanup, nil
	}
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// catalogReloadRoutine drops cached catalogs on SIGHUP so edited level files
// are picked up without a restart. Running sessions keep their catalog.
func catalogReloadRoutine(manager *catalog.Manager) {
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)

	for range reload {
		if err := manager.RefreshCache(); err != nil {
			log.Printf("Catalog reload failed: %v", err)
			continue
		}
		log.Printf("Reloaded catalogs from %s", manager.LevelsDir())
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(gameService service.GameService, hub *websocket.Hub) {
	var baseURL string

	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		internalPort := listener.Addr().(*net.TCPAddr).Port
		internalAddr := fmt.Sprintf("127.0.0.1:%d", internalPort)

		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		httpServer := &http.Server{
			Handler: api.NewServer(gameService, hub),
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
