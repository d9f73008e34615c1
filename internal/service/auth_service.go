package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/scholartrack/registrar-backend/internal/config"
	"github.com/scholartrack/registrar-backend/internal/model"
	"github.com/scholartrack/registrar-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Auth errors surfaced to handlers.
var (
	ErrTokenUnknown = errors.New("token is unknown or revoked")
	ErrInactivity   = errors.New("token revoked after inactivity")
	ErrEmailTaken   = errors.New("email already registered")
)

// tokenRecord is the redis-stored session state for one bearer token.
type tokenRecord struct {
	UserID   int   `json:"user_id"`
	LastUsed int64 `json:"last_used"`
}

// expired reports whether the token sat unused longer than the inactivity
// window.
func (r tokenRecord) expired(now time.Time, window time.Duration) bool {
	return now.Sub(time.Unix(r.LastUsed, 0)) > window
}

// AuthService issues and validates opaque bearer tokens. Tokens live in
// redis keyed by their SHA-256, carrying the owning user and a last-used
// timestamp; requests beyond the inactivity window revoke the token.
type AuthService struct {
	cfg      *config.Config
	rdb      *redis.Client
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, userRepo repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, userRepo: userRepo}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login validates credentials and issues a token. The error never reveals
// whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Burn a comparison so unknown emails cost the same as wrong
			// passwords.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(password))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a user account and issues its first token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user, enforcing the
// inactivity window and refreshing the last-used timestamp on success.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	key := config.CacheKey.AuthTokenKey(hashToken(token))

	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenUnknown
		}
		return nil, fmt.Errorf("load token: %w", err)
	}

	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode token record: %w", err)
	}

	now := time.Now()
	if rec.expired(now, s.cfg.InactivityTimeout) {
		// Revoke before reporting, so a retry cannot slip through.
		_ = s.rdb.Del(ctx, key).Err()
		return nil, ErrInactivity
	}

	rec.LastUsed = now.Unix()
	updated, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode token record: %w", err)
	}
	if err := s.rdb.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = s.rdb.Del(ctx, key).Err()
			return nil, ErrTokenUnknown
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Revoke invalidates the presented token only; other sessions of the same
// user stay active.
func (s *AuthService) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, config.CacheKey.AuthTokenKey(hashToken(token))).Err()
}

func (s *AuthService) issueToken(ctx context.Context, userID int) (string, error) {
	buf := make([]byte, 40)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(buf)

	rec, err := json.Marshal(tokenRecord{UserID: userID, LastUsed: time.Now().Unix()})
	if err != nil {
		return "", fmt.Errorf("encode token record: %w", err)
	}

	key := config.CacheKey.AuthTokenKey(hashToken(token))
	if err := s.rdb.Set(ctx, key, rec, s.cfg.TokenTTL).Err(); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// UpdateProfile renames the authenticated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error) {
	if err := s.userRepo.UpdateName(ctx, userID, req.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// UpdatePassword changes the password after verifying the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID int, req model.UpdatePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hash)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
