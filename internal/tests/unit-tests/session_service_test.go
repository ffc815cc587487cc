package unit_tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"

	"blankdigi/internal/authapi"
	"blankdigi/internal/events"
	"blankdigi/internal/models"
	"blankdigi/internal/services"
	"blankdigi/internal/tests/mocks"
)

func newSessionService(t *testing.T, api *mocks.AuthAPIMock) (*services.SessionService, *services.KeyringService) {
	t.Helper()
	keyring.MockInit()
	tokens := services.NewKeyringService()
	return services.NewSessionService(api, tokens), tokens
}

func TestSessionService_Login_PersistsTokenAndLogsIn(t *testing.T) {
	rec := recordEvents(t)
	api := &mocks.AuthAPIMock{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Equal(t, "hunter2", password)
			return "token-123", nil
		},
		CurrentUserFunc: func(ctx context.Context, token string) (*models.UserInfo, error) {
			assert.Equal(t, "token-123", token)
			return &models.UserInfo{ID: 7, Email: "ada@example.com", FullName: "Ada", Verified: true}, nil
		},
	}
	service, tokens := newSessionService(t, api)

	err := service.Login("ada@example.com", "hunter2")
	assert.NoError(t, err)

	stored, err := tokens.AuthToken()
	assert.NoError(t, err)
	assert.Equal(t, "token-123", stored)

	snap := service.Snapshot()
	assert.Equal(t, models.PhaseLoggedIn, snap.Phase)
	assert.True(t, snap.Authenticated)
	assert.Equal(t, models.ViewAdvice, snap.View)
	if assert.NotNil(t, snap.User) {
		assert.Equal(t, "ada@example.com", snap.User.Email)
	}
	assert.GreaterOrEqual(t, rec.count(events.SessionChanged), 2)
}

func TestSessionService_Login_BadCredentials(t *testing.T) {
	api := &mocks.AuthAPIMock{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			return "", &authapi.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect email or password"}
		},
	}
	service, tokens := newSessionService(t, api)

	err := service.Login("ada@example.com", "wrong")
	assert.Error(t, err)

	snap := service.Snapshot()
	assert.Equal(t, models.PhaseLoggedOut, snap.Phase)
	assert.Equal(t, models.ScreenLogin, snap.Screen)
	assert.Equal(t, "Incorrect email or password", snap.Error)
	assert.Nil(t, snap.User)

	stored, err := tokens.AuthToken()
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSessionService_Login_RequiresCredentials(t *testing.T) {
	called := false
	api := &mocks.AuthAPIMock{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			called = true
			return "token", nil
		},
	}
	service, _ := newSessionService(t, api)

	assert.Error(t, service.Login("", "pw"))
	assert.Error(t, service.Login("ada@example.com", ""))
	assert.False(t, called)
}

func TestSessionService_Login_RejectsWhileBusy(t *testing.T) {
	started := make(chan struct{})
	proceed := make(chan struct{})
	api := &mocks.AuthAPIMock{
		LoginFunc: func(ctx context.Context, email, password string) (string, error) {
			close(started)
			<-proceed
			return "token-busy", nil
		},
	}
	service, _ := newSessionService(t, api)

	done := make(chan error, 1)
	go func() {
		done <- service.Login("ada@example.com", "pw")
	}()

	<-started
	err := service.Login("ada@example.com", "pw")
	assert.ErrorContains(t, err, "ERR_SESSION_BUSY")

	close(proceed)
	assert.NoError(t, <-done)
}

func TestSessionService_Logout_ClearsTokenAndState(t *testing.T) {
	api := &mocks.AuthAPIMock{}
	service, tokens := newSessionService(t, api)

	assert.NoError(t, service.Login("ada@example.com", "pw"))
	stored, _ := tokens.AuthToken()
	assert.NotEmpty(t, stored)

	assert.NoError(t, service.Logout())

	stored, err := tokens.AuthToken()
	assert.NoError(t, err)
	assert.Empty(t, stored)

	snap := service.Snapshot()
	assert.Equal(t, models.PhaseLoggedOut, snap.Phase)
	assert.Equal(t, models.ScreenLogin, snap.Screen)
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)
}

func TestSessionService_AdoptActivationURL_StoresAndStripsToken(t *testing.T) {
	api := &mocks.AuthAPIMock{}
	service, tokens := newSessionService(t, api)

	cleaned, err := service.AdoptActivationURL("https://blankdigi.com/suite?token=tok-url&verified=true&plan=pro")
	assert.NoError(t, err)

	stored, err := tokens.AuthToken()
	assert.NoError(t, err)
	assert.Equal(t, "tok-url", stored)

	assert.NotContains(t, cleaned, "token=")
	assert.NotContains(t, cleaned, "verified=")
	assert.Contains(t, cleaned, "plan=pro")

	snap := service.Snapshot()
	assert.Equal(t, models.ScreenLogin, snap.Screen)
	assert.Contains(t, snap.Notice, "Email verified")
}

func TestSessionService_AdoptActivationURL_IgnoresPlainURLs(t *testing.T) {
	api := &mocks.AuthAPIMock{}
	service, tokens := newSessionService(t, api)

	raw := "https://blankdigi.com/suite?plan=pro"
	cleaned, err := service.AdoptActivationURL(raw)
	assert.NoError(t, err)
	assert.Equal(t, raw, cleaned)

	stored, err := tokens.AuthToken()
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSessionService_Bootstrap_ResolvesStoredToken(t *testing.T) {
	api := &mocks.AuthAPIMock{
		CurrentUserFunc: func(ctx context.Context, token string) (*models.UserInfo, error) {
			assert.Equal(t, "tok-stored", token)
			return &models.UserInfo{ID: 3, Email: "ada@example.com"}, nil
		},
	}
	service, tokens := newSessionService(t, api)
	assert.NoError(t, tokens.StoreAuthToken("tok-stored"))

	assert.NoError(t, service.Bootstrap())

	snap := service.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, models.ViewAdvice, snap.View)
}

func TestSessionService_Bootstrap_NoTokenStaysLoggedOut(t *testing.T) {
	called := false
	api := &mocks.AuthAPIMock{
		CurrentUserFunc: func(ctx context.Context, token string) (*models.UserInfo, error) {
			called = true
			return nil, nil
		},
	}
	service, _ := newSessionService(t, api)

	assert.NoError(t, service.Bootstrap())
	assert.False(t, called)

	snap := service.Snapshot()
	assert.Equal(t, models.PhaseLoggedOut, snap.Phase)
	assert.Empty(t, snap.Error)
}

func TestSessionService_Bootstrap_WipesRejectedToken(t *testing.T) {
	api := &mocks.AuthAPIMock{
		CurrentUserFunc: func(ctx context.Context, token string) (*models.UserInfo, error) {
			return nil, &authapi.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"}
		},
	}
	service, tokens := newSessionService(t, api)
	assert.NoError(t, tokens.StoreAuthToken("tok-stale"))

	// A stale token is not an error: the app just starts logged out.
	assert.NoError(t, service.Bootstrap())

	stored, err := tokens.AuthToken()
	assert.NoError(t, err)
	assert.Empty(t, stored)

	snap := service.Snapshot()
	assert.Equal(t, models.PhaseLoggedOut, snap.Phase)
	assert.Equal(t, models.ScreenLogin, snap.Screen)
	assert.Empty(t, snap.Error)
}

func TestSessionService_Register_ShowsBackendNotice(t *testing.T) {
	api := &mocks.AuthAPIMock{
		RegisterFunc: func(ctx context.Context, email, password, fullName string) (string, error) {
			assert.Equal(t, "Ada Lovelace", fullName)
			return "Registration successful. Please verify your email.", nil
		},
	}
	service, _ := newSessionService(t, api)

	assert.NoError(t, service.Register("ada@example.com", "pw", "Ada Lovelace"))

	snap := service.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Equal(t, models.ScreenLogin, snap.Screen)
	assert.Equal(t, "Registration successful. Please verify your email.", snap.Notice)
}

func TestSessionService_Register_SurfacesBackendError(t *testing.T) {
	api := &mocks.AuthAPIMock{
		RegisterFunc: func(ctx context.Context, email, password, fullName string) (string, error) {
			return "", &authapi.APIError{StatusCode: http.StatusBadRequest, Detail: "Email already registered"}
		},
	}
	service, _ := newSessionService(t, api)

	assert.Error(t, service.Register("ada@example.com", "pw", ""))

	snap := service.Snapshot()
	assert.Equal(t, models.ScreenRegister, snap.Screen)
	assert.Equal(t, "Email already registered", snap.Error)
}

func TestSessionService_PasswordResetFlow(t *testing.T) {
	api := &mocks.AuthAPIMock{}
	service, _ := newSessionService(t, api)

	assert.NoError(t, service.RequestPasswordReset("ada@example.com"))
	snap := service.Snapshot()
	assert.Equal(t, models.ScreenReset, snap.Screen)
	assert.NotEmpty(t, snap.Notice)

	assert.NoError(t, service.ConfirmPasswordReset("reset-tok", "newpw"))
	snap = service.Snapshot()
	assert.Equal(t, models.ScreenLogin, snap.Screen)
	assert.Equal(t, "Password reset successfully", snap.Notice)
}

func TestSessionService_SetViewRequiresLogin(t *testing.T) {
	api := &mocks.AuthAPIMock{}
	service, _ := newSessionService(t, api)

	err := service.SetView("studio")
	assert.ErrorContains(t, err, "ERR_NOT_AUTHENTICATED")

	assert.NoError(t, service.Login("ada@example.com", "pw"))
	assert.NoError(t, service.SetView("studio"))
	assert.Equal(t, models.ViewStudio, service.Snapshot().View)

	assert.Error(t, service.SetView("settings"))
}

func TestSessionService_SetScreen(t *testing.T) {
	api := &mocks.AuthAPIMock{}
	service, _ := newSessionService(t, api)

	assert.NoError(t, service.SetScreen("register"))
	assert.Equal(t, models.ScreenRegister, service.Snapshot().Screen)

	assert.Error(t, service.SetScreen("wizard"))

	assert.NoError(t, service.Login("ada@example.com", "pw"))
	assert.Error(t, service.SetScreen("login"))
}

func TestSessionService_OAuthURL(t *testing.T) {
	api := &mocks.AuthAPIMock{
		OAuthURLFunc: func(provider string) string {
			return "http://api.test/login/" + provider
		},
	}
	service, _ := newSessionService(t, api)

	u, err := service.OAuthURL("google")
	assert.NoError(t, err)
	assert.Equal(t, "http://api.test/login/google", u)

	u, err = service.OAuthURL("github")
	assert.NoError(t, err)
	assert.Equal(t, "http://api.test/login/github", u)

	_, err = service.OAuthURL("gitlab")
	assert.Error(t, err)
}
