package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"blankdigi/internal/models"
)

const (
	dbOpenAttempts  = 10
	dbOpenRetryWait = 2 * time.Second
)

// UserStore is the persistence surface the handlers need. Lookups return
// (nil, nil) when no row matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	MarkVerified(ctx context.Context, id uint) error
	SetResetToken(ctx context.Context, id uint, token string, expires time.Time) error
	ResetPassword(ctx context.Context, id uint, hashedPassword string) error
}

type userStore struct {
	db *gorm.DB
}

// NewUserStore wraps a gorm connection in the UserStore interface.
func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

// OpenDatabase connects to MySQL and migrates the users table. The database
// container can come up after the API, so connection failures are retried
// before giving up.
func OpenDatabase(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= dbOpenAttempts; attempt++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
		if err == nil {
			break
		}
		slog.Warn("database not ready", "attempt", attempt, "error", err)
		if attempt < dbOpenAttempts {
			time.Sleep(dbOpenRetryWait)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *userStore) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, "verification_token = ?", token)
}

func (s *userStore) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, "reset_token = ?", token)
}

func (s *userStore) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *userStore) MarkVerified(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_verified":        true,
			"verification_token": "",
		}).Error
}

func (s *userStore) SetResetToken(ctx context.Context, id uint, token string, expires time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token":         token,
			"reset_token_expires": expires,
		}).Error
}

// ResetPassword swaps the password hash and clears any pending reset token.
func (s *userStore) ResetPassword(ctx context.Context, id uint, hashedPassword string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"hashed_password":     hashedPassword,
			"reset_token":         "",
			"reset_token_expires": nil,
		}).Error
}
