package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"blankdigi/internal/authapi"
	"blankdigi/internal/events"
	"blankdigi/internal/models"
)

// AuthAPI is the slice of the auth backend client the session needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*models.UserInfo, error)
	Register(ctx context.Context, email, password, fullName string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	OAuthURL(provider string) string
}

type sessionState struct {
	phase  models.SessionPhase
	screen models.AuthScreen
	view   models.AppView
	user   *models.UserInfo
	token  string
	notice string
	err    string
}

func (st *sessionState) snapshot() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		Phase:         st.phase,
		Screen:        st.screen,
		View:          st.view,
		Authenticated: st.phase == models.PhaseLoggedIn,
		Loading:       st.phase == models.PhaseLoading,
		Notice:        st.notice,
		Error:         st.err,
	}
	if st.user != nil {
		u := *st.user
		snap.User = &u
	}
	return snap
}

// SessionService owns the auth session: which phase the app is in, who is
// logged in, and which screen or view the UI should show. Every change goes
// through transition, which emits a session-changed event carrying the new
// snapshot. The bearer token never leaves the service except into the
// keyring.
type SessionService struct {
	api    AuthAPI
	tokens *KeyringService

	mu    sync.RWMutex
	state sessionState

	context context.Context
}

func NewSessionService(api AuthAPI, tokens *KeyringService) *SessionService {
	return &SessionService{
		api:    api,
		tokens: tokens,
		state: sessionState{
			phase:  models.PhaseLoggedOut,
			screen: models.ScreenLogin,
			view:   models.ViewAdvice,
		},
	}
}

func (s *SessionService) Startup(ctx context.Context) {
	s.context = ctx
}

// Snapshot returns a copy of the current session state.
func (s *SessionService) Snapshot() models.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.snapshot()
}

// Bootstrap resolves the stored token, if any, into a logged-in session.
// Called once on startup and again after an activation URL is adopted.
func (s *SessionService) Bootstrap() error {
	if err := s.beginLoading(); err != nil {
		return err
	}
	return s.resolveStoredToken()
}

// AdoptActivationURL persists a token arriving via the activation URL's
// query, then returns the URL with the auth parameters stripped. The token
// is stored before the URL is rewritten; a following Bootstrap resolves it
// into an identity.
func (s *SessionService) AdoptActivationURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw, fmt.Errorf("parse activation url: %w", err)
	}
	q := u.Query()
	token := q.Get("token")
	verified := q.Get("verified")
	if token == "" && verified == "" {
		return raw, nil
	}

	if token != "" {
		if err := s.tokens.StoreAuthToken(token); err != nil {
			return raw, fmt.Errorf("persist activation token: %w", err)
		}
	}
	q.Del("token")
	q.Del("verified")
	u.RawQuery = q.Encode()

	if verified == "true" {
		s.transition(func(st *sessionState) {
			st.screen = models.ScreenLogin
			st.notice = "Email verified. You can sign in now."
			st.err = ""
		})
	}
	return u.String(), nil
}

// Login exchanges credentials for a token, persists it, and resolves the
// identity behind it.
func (s *SessionService) Login(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	if err := s.beginLoading(); err != nil {
		return err
	}

	token, err := s.api.Login(s.ctx(), email, password)
	if err != nil {
		s.fail(models.ScreenLogin, err)
		return err
	}
	if err := s.tokens.StoreAuthToken(token); err != nil {
		s.fail(models.ScreenLogin, err)
		return err
	}
	user, err := s.api.CurrentUser(s.ctx(), token)
	if err != nil {
		s.fail(models.ScreenLogin, err)
		return err
	}

	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedIn
		st.user = user
		st.token = token
		st.view = models.ViewAdvice
		st.notice = ""
		st.err = ""
	})
	return nil
}

// Register creates an account. On success the session stays logged out and
// the login screen shows the backend's message, which mentions email
// verification when the backend requires it.
func (s *SessionService) Register(email, password, fullName string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	if err := s.beginLoading(); err != nil {
		return err
	}

	message, err := s.api.Register(s.ctx(), email, password, fullName)
	if err != nil {
		s.fail(models.ScreenRegister, err)
		return err
	}

	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedOut
		st.screen = models.ScreenLogin
		st.notice = message
		st.err = ""
	})
	return nil
}

// RequestPasswordReset asks the backend for a reset token and moves to the
// reset screen where the user enters it.
func (s *SessionService) RequestPasswordReset(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if err := s.beginLoading(); err != nil {
		return err
	}

	message, err := s.api.ForgotPassword(s.ctx(), email)
	if err != nil {
		s.fail(models.ScreenForgot, err)
		return err
	}

	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedOut
		st.screen = models.ScreenReset
		st.notice = message
		st.err = ""
	})
	return nil
}

// ConfirmPasswordReset redeems a reset token and returns to the login
// screen on success.
func (s *SessionService) ConfirmPasswordReset(token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return errors.New("token and new password are required")
	}
	if err := s.beginLoading(); err != nil {
		return err
	}

	message, err := s.api.ResetPassword(s.ctx(), token, newPassword)
	if err != nil {
		s.fail(models.ScreenReset, err)
		return err
	}

	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedOut
		st.screen = models.ScreenLogin
		st.notice = message
		st.err = ""
	})
	return nil
}

// Logout clears the persisted token and returns to the login screen.
func (s *SessionService) Logout() error {
	if err := s.tokens.ClearAuthToken(); err != nil {
		return fmt.Errorf("clear stored token: %w", err)
	}
	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedOut
		st.screen = models.ScreenLogin
		st.view = models.ViewAdvice
		st.user = nil
		st.token = ""
		st.notice = ""
		st.err = ""
	})
	return nil
}

// SetView switches between the logged-in screens.
func (s *SessionService) SetView(view string) error {
	v := models.AppView(view)
	if v != models.ViewAdvice && v != models.ViewStudio {
		return fmt.Errorf("unknown view %q", view)
	}
	s.mu.Lock()
	if s.state.phase != models.PhaseLoggedIn {
		s.mu.Unlock()
		return fmt.Errorf("ERR_NOT_AUTHENTICATED:sign in to open this view")
	}
	s.state.view = v
	snap := s.state.snapshot()
	s.mu.Unlock()

	events.Emit(s.ctx(), events.SessionChanged, events.NewInfo("session state changed").WithPayload(snap))
	return nil
}

// SetScreen switches between the logged-out forms.
func (s *SessionService) SetScreen(screen string) error {
	sc := models.AuthScreen(screen)
	switch sc {
	case models.ScreenLogin, models.ScreenRegister, models.ScreenForgot, models.ScreenReset:
	default:
		return fmt.Errorf("unknown screen %q", screen)
	}
	s.mu.Lock()
	if s.state.phase == models.PhaseLoggedIn {
		s.mu.Unlock()
		return errors.New("already signed in")
	}
	s.state.screen = sc
	s.state.notice = ""
	s.state.err = ""
	snap := s.state.snapshot()
	s.mu.Unlock()

	events.Emit(s.ctx(), events.SessionChanged, events.NewInfo("session state changed").WithPayload(snap))
	return nil
}

// ClearNotice wipes the transient notice and error messages.
func (s *SessionService) ClearNotice() {
	s.transition(func(st *sessionState) {
		st.notice = ""
		st.err = ""
	})
}

// OAuthURL returns the backend URL that starts a provider's OAuth flow.
func (s *SessionService) OAuthURL(provider string) (string, error) {
	if provider != "google" && provider != "github" {
		return "", fmt.Errorf("unknown oauth provider %q", provider)
	}
	return s.api.OAuthURL(provider), nil
}

// resolveStoredToken turns the keyring token into an identity. A rejected
// token is wiped so the next start goes straight to the login screen.
func (s *SessionService) resolveStoredToken() error {
	token, err := s.tokens.AuthToken()
	if err != nil {
		s.fail(models.ScreenLogin, err)
		return err
	}
	if token == "" {
		s.transition(func(st *sessionState) {
			st.phase = models.PhaseLoggedOut
			st.user = nil
			st.token = ""
		})
		return nil
	}

	user, err := s.api.CurrentUser(s.ctx(), token)
	if err != nil {
		if authapi.IsUnauthorized(err) {
			_ = s.tokens.ClearAuthToken()
			s.transition(func(st *sessionState) {
				st.phase = models.PhaseLoggedOut
				st.screen = models.ScreenLogin
				st.user = nil
				st.token = ""
			})
			return nil
		}
		s.fail(models.ScreenLogin, err)
		return err
	}

	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedIn
		st.user = user
		st.token = token
		st.view = models.ViewAdvice
		st.err = ""
	})
	return nil
}

// beginLoading moves the session into the loading phase, rejecting the call
// when another request is already in flight.
func (s *SessionService) beginLoading() error {
	s.mu.Lock()
	if s.state.phase == models.PhaseLoading {
		s.mu.Unlock()
		return fmt.Errorf("ERR_SESSION_BUSY:another request is already in progress")
	}
	s.state.phase = models.PhaseLoading
	s.state.err = ""
	snap := s.state.snapshot()
	s.mu.Unlock()

	events.Emit(s.ctx(), events.SessionChanged, events.NewInfo("session loading").WithPayload(snap))
	return nil
}

// fail drops back to a logged-out screen carrying the error message.
func (s *SessionService) fail(screen models.AuthScreen, err error) {
	s.transition(func(st *sessionState) {
		st.phase = models.PhaseLoggedOut
		st.screen = screen
		st.user = nil
		st.token = ""
		st.err = err.Error()
	})
}

// transition applies a mutation under the lock and emits the new snapshot.
func (s *SessionService) transition(mutate func(*sessionState)) models.SessionSnapshot {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.state.snapshot()
	s.mu.Unlock()

	events.Emit(s.ctx(), events.SessionChanged, events.NewInfo("session state changed").WithPayload(snap))
	return snap
}

func (s *SessionService) ctx() context.Context {
	if s.context != nil {
		return s.context
	}
	return context.Background()
}
