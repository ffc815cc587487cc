package mocks

import (
	"context"

	"blankdigi/internal/models"
)

type AuthAPIMock struct {
	LoginFunc          func(ctx context.Context, email, password string) (string, error)
	CurrentUserFunc    func(ctx context.Context, token string) (*models.UserInfo, error)
	RegisterFunc       func(ctx context.Context, email, password, fullName string) (string, error)
	ForgotPasswordFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc  func(ctx context.Context, token, newPassword string) (string, error)
	OAuthURLFunc       func(provider string) string
}

func (m *AuthAPIMock) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "mock-token", nil
}

func (m *AuthAPIMock) CurrentUser(ctx context.Context, token string) (*models.UserInfo, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, token)
	}
	return &models.UserInfo{ID: 1, Email: "mock@example.com", Verified: true}, nil
}

func (m *AuthAPIMock) Register(ctx context.Context, email, password, fullName string) (string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, password, fullName)
	}
	return "Registration successful.", nil
}

func (m *AuthAPIMock) ForgotPassword(ctx context.Context, email string) (string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return "If email exists, a reset token has been sent.", nil
}

func (m *AuthAPIMock) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return "Password reset successfully", nil
}

func (m *AuthAPIMock) OAuthURL(provider string) string {
	if m.OAuthURLFunc != nil {
		return m.OAuthURLFunc(provider)
	}
	return "http://localhost:8000/login/" + provider
}
