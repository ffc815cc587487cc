package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"blankdigi/internal/events"
	"blankdigi/internal/services"
)

// App struct
type App struct {
	ctx     context.Context
	session *services.SessionService
	launch  []string
	dbClose func() error
}

// NewApp creates a new App application struct
func NewApp(session *services.SessionService, launchArgs []string) *App {
	return &App{session: session, launch: launchArgs}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	events.EnableRuntimeEmitter()

	go a.adoptAndBootstrap(a.launch)
}

// adoptAndBootstrap feeds any activation URL from the launch args into the
// session, then resolves the stored token into an identity.
func (a *App) adoptAndBootstrap(args []string) {
	if raw := activationURL(args); raw != "" {
		if _, err := a.session.AdoptActivationURL(raw); err != nil {
			runtime.LogWarning(a.ctx, fmt.Sprintf("activation url ignored: %v", err))
		}
	}
	if err := a.session.Bootstrap(); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("session bootstrap failed: %v", err))
	}
}

// onSecondInstance receives the args of a second launch, typically the
// OAuth or verification redirect, and routes them into the running session.
func (a *App) onSecondInstance(data options.SecondInstanceData) {
	runtime.WindowUnminimise(a.ctx)
	runtime.Show(a.ctx)
	go a.adoptAndBootstrap(data.Args)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// BeginOAuth opens the provider's sign-in page in the system browser. The
// backend redirects back into the app with a token once the provider
// confirms the user.
func (a *App) BeginOAuth(provider string) error {
	u, err := a.session.OAuthURL(provider)
	if err != nil {
		return err
	}
	runtime.BrowserOpenURL(a.ctx, u)
	return nil
}

// OpenExternal opens a citation link in the system browser.
func (a *App) OpenExternal(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	runtime.BrowserOpenURL(a.ctx, u.String())
	return nil
}

// activationURL picks the first launch argument that looks like an
// activation URL carrying auth parameters.
func activationURL(args []string) string {
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if !strings.Contains(arg, "://") {
			continue
		}
		u, err := url.Parse(arg)
		if err != nil {
			continue
		}
		q := u.Query()
		if q.Get("token") != "" || q.Get("verified") != "" {
			return arg
		}
	}
	return ""
}
