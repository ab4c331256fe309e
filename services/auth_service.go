package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"qc-registry/models"
	"qc-registry/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	Secret        string
	TTL           time.Duration
	AdminID       string
	AdminPassword string
}

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginInput struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password"`
}

type AuthService struct {
	workers  *repositories.WorkerRepository
	sessions *repositories.SessionRepository
	cfg      AuthConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(workers *repositories.WorkerRepository, sessions *repositories.SessionRepository, cfg AuthConfig, log *zap.Logger) *AuthService {
	return &AuthService{workers: workers, sessions: sessions, cfg: cfg, log: log, now: time.Now}
}

// Admin is the built-in administrator identity.
func (s *AuthService) Admin() models.Worker {
	name := s.cfg.AdminID
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return models.Worker{
		ID:             "admin-" + strings.ToLower(s.cfg.AdminID),
		Name:           name + " (Admin)",
		MobileNumber:   "MASTER",
		EmployeeCode:   "ADM-GGC-001",
		Department:     "Management",
		JoinDate:       "2025-01-01",
		Status:         models.StatusActive,
		Role:           models.RoleAdmin,
		Permissions:    models.AllCategories(),
		CanViewHistory: true,
	}
}

// Login authenticates either the administrator (admin id and password) or an
// enrolled worker (mobile number or employee code, plus the password when one
// was set at enrolment). It returns a signed token and records the user as the
// current session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, models.Worker, error) {
	identity := strings.TrimSpace(in.Identity)
	if identity == "" {
		return "", models.Worker{}, ErrInvalidCredentials
	}

	var user models.Worker
	if strings.EqualFold(identity, s.cfg.AdminID) {
		if subtle.ConstantTimeCompare([]byte(in.Password), []byte(s.cfg.AdminPassword)) != 1 {
			return "", models.Worker{}, ErrInvalidCredentials
		}
		user = s.Admin()
	} else {
		w, ok := s.workers.GetByLogin(identity)
		if !ok {
			return "", models.Worker{}, ErrInvalidCredentials
		}
		if w.Status == models.StatusInactive {
			return "", models.Worker{}, ErrForbidden
		}
		if w.Password != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(w.Password), []byte(in.Password)); err != nil {
				return "", models.Worker{}, ErrInvalidCredentials
			}
		}
		user = w.Public()
	}

	token, err := s.Issue(user)
	if err != nil {
		return "", models.Worker{}, err
	}
	if err := s.sessions.Set(ctx, user); err != nil {
		return "", models.Worker{}, err
	}

	s.log.Info("login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, user, nil
}

func (s *AuthService) Issue(user models.Worker) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Resolve parses a token and returns the worker it was issued to. Workers
// removed since the token was issued no longer resolve.
func (s *AuthService) Resolve(token string) (models.Worker, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return models.Worker{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if admin := s.Admin(); claims.UserID == admin.ID {
		return admin, nil
	}
	w, ok := s.workers.GetByID(claims.UserID)
	if !ok || w.Status == models.StatusInactive {
		return models.Worker{}, ErrInvalidToken
	}
	return w.Public(), nil
}

func (s *AuthService) Logout(ctx context.Context, user models.Worker) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("logout", zap.String("user_id", user.ID))
	return nil
}
