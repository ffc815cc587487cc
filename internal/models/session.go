package models

// SessionPhase tracks where the app is in its auth lifecycle.
type SessionPhase string

const (
	PhaseLoggedOut SessionPhase = "loggedOut"
	PhaseLoading   SessionPhase = "loading"
	PhaseLoggedIn  SessionPhase = "loggedIn"
)

// AuthScreen selects which logged-out form the UI shows.
type AuthScreen string

const (
	ScreenLogin    AuthScreen = "login"
	ScreenRegister AuthScreen = "register"
	ScreenForgot   AuthScreen = "forgot"
	ScreenReset    AuthScreen = "reset"
)

// AppView selects which logged-in screen the UI shows.
type AppView string

const (
	ViewAdvice AppView = "advice"
	ViewStudio AppView = "studio"
)

// UserInfo mirrors the auth backend's /users/me payload.
type UserInfo struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Verified bool   `json:"is_verified"`
}

// SessionSnapshot is the read-only session state handed to the UI. The
// bearer token itself stays inside the session manager and the keyring.
type SessionSnapshot struct {
	Phase         SessionPhase `json:"phase"`
	Screen        AuthScreen   `json:"screen"`
	View          AppView      `json:"view"`
	Authenticated bool         `json:"authenticated"`
	Loading       bool         `json:"loading"`
	User          *UserInfo    `json:"user,omitempty"`
	Notice        string       `json:"notice,omitempty"`
	Error         string       `json:"error,omitempty"`
}
