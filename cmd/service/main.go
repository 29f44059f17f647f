package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gitlab.com/dirk.krummacker/contact-list/internal/config"
	"gitlab.com/dirk.krummacker/contact-list/internal/export"
	"gitlab.com/dirk.krummacker/contact-list/internal/extract"
	"gitlab.com/dirk.krummacker/contact-list/internal/logging"
	"gitlab.com/dirk.krummacker/contact-list/internal/persistence"
	"gitlab.com/dirk.krummacker/contact-list/internal/seed"
	"gitlab.com/dirk.krummacker/contact-list/internal/service"
	"gitlab.com/dirk.krummacker/contact-list/internal/store"
	"go.uber.org/zap"
)

// Usage example on the command line:
// > PORT=8080 SLOT_BACKEND=sqlite SLOT_PATH=data GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > PORT=8080 SLOT_BACKEND=mysql DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("could not read configuration", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	slot, closeSlot := openSlot(ctx, cfg, logger)
	defer closeSlot()

	mirror := persistence.NewMirror(slot, cfg.SlotKey, logger)
	contacts := store.New(mirror)
	contacts.Load(ctx, mirror)
	logger.Info("contacts loaded", zap.String("backend", cfg.SlotBackend), zap.Int("count", contacts.Len()))

	if cfg.SeedFile != "" {
		entries, err := seed.Load(cfg.SeedFile)
		if err != nil {
			logger.Fatal("could not read seed file", zap.Error(err))
		}
		added, err := seed.Apply(ctx, contacts, entries, logger)
		if err != nil {
			logger.Fatal("could not seed contacts", zap.Error(err))
		}
		logger.Info("contacts seeded", zap.Int("added", added))
	}

	svc := service.New(contacts, extract.NewRunner(newExtractor(ctx, cfg, logger), logger), export.Exporter{}, logger)
	router := svc.SetupHttpRouter(cfg.RequestLogging())
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		logger.Fatal("HTTP server stopped", zap.Error(err))
	}
}

// openSlot opens the storage slot selected by the configuration. The returned function releases
// the slot.
func openSlot(ctx context.Context, cfg config.Config, logger *zap.Logger) (persistence.Slot, func()) {
	switch cfg.SlotBackend {
	case "memory":
		logger.Warn("contacts are kept in memory only")
		return persistence.NewMemorySlot(), func() {}
	case "sqlite", "mysql":
		driver, dsn := cfg.SlotDSN()
		if driver == "sqlite" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				logger.Fatal("could not create slot directory", zap.Error(err))
			}
		}
		slot, err := persistence.OpenSQLSlot(ctx, driver, dsn)
		if err != nil {
			logger.Fatal("could not open slot database", zap.Error(err))
		}
		return slot, func() { slot.Close() }
	default:
		slot, err := persistence.NewFileSlot(cfg.SlotPath)
		if err != nil {
			logger.Fatal("could not open slot directory", zap.Error(err))
		}
		return slot, func() {}
	}
}

// newExtractor creates the Gemini extractor, or a disabled one if no API key is configured.
func newExtractor(ctx context.Context, cfg config.Config, logger *zap.Logger) extract.Extractor {
	if cfg.GeminiKey() == "" {
		logger.Warn("no Gemini API key configured, contact extraction is disabled")
		return extract.Disabled{}
	}
	gemini, err := extract.NewGemini(ctx, cfg.GeminiKey(), cfg.GeminiModel, cfg.GeminiBaseURL)
	if err != nil {
		logger.Fatal("could not create Gemini client", zap.Error(err))
	}
	return gemini
}
