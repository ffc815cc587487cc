package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"blankdigi/internal/models"
)

// oauthEndpoints holds the provider URLs so tests can point them at local
// stand-ins.
type oauthEndpoints struct {
	googleAuthURL     string
	googleTokenURL    string
	googleUserInfoURL string
	githubAuthURL     string
	githubTokenURL    string
	githubAPIURL      string
}

func defaultOAuthEndpoints() oauthEndpoints {
	return oauthEndpoints{
		googleAuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
		googleTokenURL:    "https://oauth2.googleapis.com/token",
		googleUserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
		githubAuthURL:     "https://github.com/login/oauth/authorize",
		githubTokenURL:    "https://github.com/login/oauth/access_token",
		githubAPIURL:      "https://api.github.com",
	}
}

func (s *Server) googleRedirectURI() string {
	return s.cfg.APIBaseURL + "/auth/google/callback"
}

func (s *Server) handleLoginGoogle(w http.ResponseWriter, r *http.Request) {
	if s.cfg.GoogleClientID == "" {
		writeDetail(w, http.StatusBadRequest, "Google OAuth not configured")
		return
	}
	q := url.Values{}
	q.Set("client_id", s.cfg.GoogleClientID)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("redirect_uri", s.googleRedirectURI())
	http.Redirect(w, r, s.oauth.googleAuthURL+"?"+q.Encode(), http.StatusTemporaryRedirect)
}

// handleLoginGithub starts the GitHub flow. The callback URL is not passed
// here; it has to be configured in the GitHub OAuth app settings as
// {API_BASE_URL}/auth/github/callback.
func (s *Server) handleLoginGithub(w http.ResponseWriter, r *http.Request) {
	if s.cfg.GithubClientID == "" {
		writeDetail(w, http.StatusBadRequest, "GitHub OAuth not configured")
		return
	}
	q := url.Values{}
	q.Set("client_id", s.cfg.GithubClientID)
	q.Set("scope", "user:email")
	http.Redirect(w, r, s.oauth.githubAuthURL+"?"+q.Encode(), http.StatusTemporaryRedirect)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.cfg.GoogleClientID == "" || s.cfg.GoogleClientSecret == "" {
		writeDetail(w, http.StatusBadRequest, "Google OAuth not configured")
		return
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.GoogleClientID)
	form.Set("client_secret", s.cfg.GoogleClientSecret)
	form.Set("code", r.URL.Query().Get("code"))
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", s.googleRedirectURI())

	accessToken, err := s.exchangeCode(r.Context(), s.oauth.googleTokenURL, form, false)
	if err != nil || accessToken == "" {
		writeDetail(w, http.StatusBadRequest, "Google token exchange failed")
		return
	}

	info, err := s.fetchProfile(r.Context(), s.oauth.googleUserInfoURL, accessToken)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Google did not return email")
		return
	}
	email, _ := info["email"].(string)
	name, _ := info["name"].(string)
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "Google did not return email")
		return
	}

	s.finishSocialLogin(w, r, email, name)
}

func (s *Server) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	if s.cfg.GithubClientID == "" || s.cfg.GithubClientSecret == "" {
		writeDetail(w, http.StatusBadRequest, "GitHub OAuth not configured")
		return
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.GithubClientID)
	form.Set("client_secret", s.cfg.GithubClientSecret)
	form.Set("code", r.URL.Query().Get("code"))

	accessToken, err := s.exchangeCode(r.Context(), s.oauth.githubTokenURL, form, true)
	if err != nil || accessToken == "" {
		writeDetail(w, http.StatusBadRequest, "GitHub token exchange failed")
		return
	}

	profile, err := s.fetchProfile(r.Context(), s.oauth.githubAPIURL+"/user", accessToken)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Could not retrieve email from GitHub")
		return
	}
	email, _ := profile["email"].(string)
	name, _ := profile["name"].(string)
	if name == "" {
		name, _ = profile["login"].(string)
	}

	// Profiles with a private email need the emails endpoint.
	if email == "" {
		email, err = s.fetchGithubEmail(r.Context(), accessToken)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Could not retrieve email from GitHub")
			return
		}
	}
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "Could not retrieve email from GitHub")
		return
	}

	s.finishSocialLogin(w, r, email, name)
}

// exchangeCode posts the authorization code to the provider token endpoint
// and returns the access token.
func (s *Server) exchangeCode(ctx context.Context, tokenURL string, form url.Values, acceptJSON bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if acceptJSON {
		// GitHub answers with form-encoded data unless asked for JSON.
		req.Header.Set("Accept", "application/json")
	}

	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.AccessToken, nil
}

func (s *Server) fetchProfile(ctx context.Context, profileURL, accessToken string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// fetchGithubEmail returns the primary verified address of the account.
func (s *Server) fetchGithubEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.oauth.githubAPIURL+"/user/emails", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(res.Body).Decode(&emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

// finishSocialLogin looks up or creates the account, then sends the browser
// back to the frontend with a token in the query string.
func (s *Server) finishSocialLogin(w http.ResponseWriter, r *http.Request, email, name string) {
	user, err := s.store.FindByEmail(r.Context(), email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if user == nil {
		// Social accounts never log in with a password, so store a
		// hash of a random one and mark them verified right away.
		hashed, err := HashPassword(uuid.NewString())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		user = &models.User{
			Email:          email,
			HashedPassword: hashed,
			FullName:       name,
			IsVerified:     true,
		}
		if err := s.store.Create(r.Context(), user); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	token, err := s.issuer.Issue(user.Email)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, s.cfg.FrontendURL+"?token="+url.QueryEscape(token), http.StatusTemporaryRedirect)
}
