package main

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"blankdigi/internal/authapi"
	"blankdigi/internal/config"
	"blankdigi/internal/database"
	"blankdigi/internal/seo"
	"blankdigi/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		return
	}

	db, err := database.Init(database.Config{
		Path:     database.GetDefaultDBPath(),
		LogLevel: logger.Info,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	// Create each service
	keyringService := services.NewKeyringService()
	dbService := services.NewDbServices(db)
	providerService := services.NewProviderService(keyringService, cfg.GeminiAPIKey, cfg.VideoPollInterval())
	authClient := authapi.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout())
	sessionService := services.NewSessionService(authClient, keyringService)
	inspector := seo.NewInspector(&http.Client{Timeout: cfg.HTTPTimeout()})
	chatService := services.NewChatService(dbService.ChatMessages, providerService, inspector, dbService.AppSettings)
	studioService := services.NewStudioService(providerService, dbService.MediaAssets, cfg.MediaDir)

	app := NewApp(sessionService, os.Args[1:])
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "BlankDigi Suite",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "BlankDigi Suite",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               "3f6b9f7e-0c2a-4d83-9b5e-7d2f5a1c8e41",
			OnSecondInstanceLaunch: app.onSecondInstance,
		},
		OnStartup: func(ctx context.Context) {
			dbService.StartDbServices(ctx)
			providerService.Startup(ctx)
			sessionService.Startup(ctx)
			chatService.Startup(ctx)
			studioService.Startup(ctx)
			app.startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			dbService.AppSettings,
			keyringService,
			providerService,
			sessionService,
			chatService,
			studioService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
