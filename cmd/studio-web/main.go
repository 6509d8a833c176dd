package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/artiestudio/artie/internal/auth"
	"github.com/artiestudio/artie/internal/config"
	"github.com/artiestudio/artie/internal/drag"
	"github.com/artiestudio/artie/internal/export"
	"github.com/artiestudio/artie/internal/gemini"
	"github.com/artiestudio/artie/internal/history"
	"github.com/artiestudio/artie/internal/logging"
	"github.com/artiestudio/artie/internal/media"
	"github.com/artiestudio/artie/internal/scene"
	"github.com/artiestudio/artie/internal/workflow"
)

//go:embed all:frontend_dist
var frontendFS embed.FS

// CLI flags
var (
	portFlag    int
	configFlag  string
	dataDirFlag string
)

// Shared server state, wired once in runMain.
var (
	cfg       config.Config
	library   *scene.Library
	assets    *media.Store
	keychain  *auth.Keychain
	runner    *workflow.Runner
	dragCtl   *drag.Controller
	renderer  *export.Renderer
	histStore history.Store
)

var rootCmd = &cobra.Command{
	Use:   "studio-web",
	Short: "Local web studio for AI-generated ad scenes",
	Long: `Studio Web starts a local server hosting the ad studio: write a creative
brief, generate scripted image or video scenes with Gemini, chain scenes into
stories, edit text and logo overlays, and export finished ads as ZIP bundles.

Examples:
  studio-web
  studio-web --port 9090
  studio-web --data-dir ~/ads`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&dataDirFlag, "data-dir", "", "Directory for assets and history (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	var err error
	cfg, err = config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if portFlag != 0 {
		cfg.Port = portFlag
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare data directory")
	}

	logging.NewStartup("studio-web").
		Config("dataDir", cfg.DataDir).
		Model("script", cfg.Models.Script).
		Model("image", cfg.Models.Image).
		Model("video", cfg.Models.Video).
		Model("speech", cfg.Models.Speech).
		Log()

	assets, err = media.NewStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open asset store")
	}

	histStore, err = history.OpenSQLite(filepath.Join(cfg.DataDir, "history.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer histStore.Close()

	ctx := context.Background()

	library = scene.NewLibrary()
	if scenes, err := histStore.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not load history, starting empty")
	} else {
		library.Restore(scenes)
		log.Info().Int("scenes", len(scenes)).Msg("History restored")
	}
	library.OnChange(func(snapshot []scene.Scene) {
		if err := histStore.SaveAll(context.Background(), snapshot); err != nil {
			log.Error().Err(err).Msg("Failed to persist history")
		}
	})

	keychain = auth.NewKeychain()
	if keychain.Key() != "" {
		if err := keychain.Validate(ctx); err != nil {
			log.Warn().Err(err).Msg("Environment API key failed validation")
		} else {
			log.Info().Msg("API key validated")
		}
	}

	runner = workflow.NewRunner(newGenerator, keychain, assets, library)
	dragCtl = drag.NewController()
	renderer = export.NewRenderer(assets, export.NewFontLibrary(filepath.Join(cfg.DataDir, "fonts")))

	mux := http.NewServeMux()

	// Scene library
	mux.HandleFunc("GET /api/history", handleHistory)
	mux.HandleFunc("GET /api/scenes/{id}", handleScene)
	mux.HandleFunc("GET /api/scenes/{id}/story", handleStory)
	mux.HandleFunc("POST /api/scenes/{id}/select", handleSceneSelect)
	mux.HandleFunc("DELETE /api/scenes/{id}", handleSceneDelete)

	// Generation
	mux.HandleFunc("GET /api/options", handleOptions)
	mux.HandleFunc("POST /api/generate", handleGenerate)
	mux.HandleFunc("GET /api/generate/status", handleGenerateStatus)
	mux.HandleFunc("POST /api/brainstorm", handleBrainstorm)
	mux.HandleFunc("GET /api/idea", handleIdea)

	// Overlay editing
	mux.HandleFunc("PUT /api/scenes/{id}/overlays", handleOverlaysUpdate)
	mux.HandleFunc("POST /api/scenes/{id}/overlays/{overlayID}/center", handleOverlayCenter)
	mux.HandleFunc("POST /api/scenes/{id}/logo", handleLogoUpload)
	mux.HandleFunc("DELETE /api/scenes/{id}/logo", handleLogoDelete)
	mux.HandleFunc("POST /api/drag/select", handleDragSelect)
	mux.HandleFunc("POST /api/drag/deselect", handleDragDeselect)
	mux.HandleFunc("POST /api/drag/begin", handleDragBegin)
	mux.HandleFunc("POST /api/drag/move", handleDragMove)
	mux.HandleFunc("POST /api/drag/end", handleDragEnd)

	// Assets and export
	mux.HandleFunc("GET /api/media/{path...}", handleMedia)
	mux.HandleFunc("GET /api/export/scenes/{id}/composite", handleComposite)
	mux.HandleFunc("GET /api/export/scenes/{id}/bundle", handleSceneBundle)
	mux.HandleFunc("POST /api/export/stories/{id}", handleStoryExport)
	mux.HandleFunc("GET /api/export/jobs/{id}", handleExportJob)
	mux.HandleFunc("GET /api/export/jobs/{id}/download", handleExportDownload)

	// API key
	mux.HandleFunc("GET /api/key", handleKeyStatus)
	mux.HandleFunc("POST /api/key/select", handleKeySelect)

	// Frontend static files (SPA fallback)
	frontendSub, err := fs.Sub(frontendFS, "frontend_dist")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to access embedded frontend")
	}
	fileServer := http.FileServer(http.FS(frontendSub))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' blob: data:; media-src 'self' blob:; style-src 'self' 'unsafe-inline'; connect-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// SPA fallback: if the file doesn't exist, serve index.html
		path := r.URL.Path
		if path != "/" {
			f, err := frontendSub.Open(strings.TrimPrefix(path, "/"))
			if err != nil {
				r.URL.Path = "/"
			} else {
				f.Close()
			}
		}
		fileServer.ServeHTTP(w, r)
	})

	handler := withLogging(withCORS(mux))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // story exports stream large bundles
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		log.Info().Int("port", cfg.Port).Msg("Starting studio server")
		fmt.Printf("\n  Artie Studio: http://localhost:%d\n\n", cfg.Port)
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// newClient builds a Gemini client for the currently selected key.
func newClient(ctx context.Context) (*gemini.Client, error) {
	key := keychain.Key()
	if key == "" {
		return nil, errors.New("no API key selected; add one from the studio header")
	}
	return gemini.NewClient(ctx, key, cfg.Models)
}

func newGenerator(ctx context.Context) (workflow.Generator, error) {
	return newClient(ctx)
}

// --- Middleware ---

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only localhost origins; the studio never serves beyond the machine.
		origin := r.Header.Get("Origin")
		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
