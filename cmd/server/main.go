package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/file2md/backend/internal/api"
	"github.com/file2md/backend/internal/config"
	"github.com/file2md/backend/internal/convert"
	"github.com/file2md/backend/internal/session"
	"github.com/file2md/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "FileToMarkdown.config.xml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure staging directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Optional yaml override narrows the enabled formats without touching
	// the XML config
	enabled := cfg.AllowedExtensionList()
	overridePath := filepath.Join(cfg.GetDataDir(), "defaults", "formats.yaml")
	if override, err := config.LoadFormatsOverride(overridePath); err != nil {
		fmt.Printf("Warning: ignoring formats override: %v\n", err)
	} else if override != nil {
		enabled = override
		fmt.Printf("Formats override loaded from %s\n", overridePath)
	}

	// Build the process-wide conversion engine; constructed once, reused by
	// every request for the life of the process
	engine := convert.Shared(convert.Options{
		OCRLanguage:       cfg.Conversion.OCRLanguage,
		MaxArchiveMembers: cfg.Conversion.MaxArchiveMembers,
		Enabled:           enabled,
	})
	for _, ext := range engine.UnknownEnabled() {
		fmt.Printf("Warning: no converter for configured extension %q, ignoring\n", ext)
	}

	// Initialize the result store and its cleanup loop
	results := session.NewManager(time.Duration(cfg.Conversion.ResultTTLMinutes) * time.Minute)
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Conversion.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := results.CleanupExpired(); n > 0 {
				fmt.Printf("Evicted %d expired conversion results\n", n)
			}
		}
	}()

	handlers := api.NewHandlers(&api.Dependencies{
		Engine:      engine,
		Results:     results,
		TempDir:     cfg.GetTempDir(),
		Timeout:     time.Duration(cfg.Conversion.ConversionTimeoutSeconds) * time.Second,
		AllowDelete: cfg.Conversion.AllowResultDeletion,
		Version:     Version,
		WSMaxBytes:  int64(cfg.Advanced.WebSocketMaxUploadMB) << 20,
	})

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			// Conversion bounds its own duration; the WS connection is
			// long-lived by design
			path := c.Request().URL.Path
			return strings.Contains(path, "/convert") ||
				strings.Contains(path, "/ws/")
		},
		ErrorMessage: "Request timeout",
	}))

	// Compression middleware
	if cfg.Advanced.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Advanced.CompressionLevel,
		}))
	}

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	// API routes, then the embedded page as catch-all
	api.RegisterRoutes(e, handlers)

	if web.HasEmbeddedFiles() {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Print startup banner
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           File to Markdown Converter                      ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Temp Dir:  %-46s║\n", cfg.GetTempDir())
	fmt.Printf("║  Formats:   %-46s║\n", strings.Join(engine.Extensions(), ","))
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
	fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)

	e.Logger.Fatal(e.StartServer(s))
}
