package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/repository"
	"github.com/roksva123/go-bizadmin-backend/internal/utils"
)

var errInvalidCredentials = apperror.Unauthorized{Reason: "invalid credentials"}

// TokenValidator verifies Google ID tokens. *idtoken.Validator satisfies it.
type TokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// Session is a verified token: who it belongs to, its ID and expiry.
type Session struct {
	model.Principal
	TokenID   string
	ExpiresAt time.Time
}

type AuthOptions struct {
	JWTSecret      string
	TokenTTL       time.Duration
	GoogleClientID string
	AllowedDomains []string
	AdminEmails    []string
}

type AuthService struct {
	repo     repository.AdminStore
	google   TokenValidator
	jwtKey   []byte
	ttl      time.Duration
	clientID string
	domains  map[string]bool
	admins   map[string]bool
	revoked  *revocationList
	logger   *zap.Logger
	now      Clock
}

func NewAuthService(repo repository.AdminStore, google TokenValidator, opts AuthOptions, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		google:   google,
		jwtKey:   []byte(opts.JWTSecret),
		ttl:      opts.TokenTTL,
		clientID: opts.GoogleClientID,
		domains:  lowerSet(opts.AllowedDomains),
		admins:   lowerSet(opts.AdminEmails),
		revoked:  newRevocationList(),
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks a local admin's password and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	admin, err := s.repo.GetAdminByUsername(ctx, strings.TrimSpace(username))
	if isNotFound(err) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(admin.PasswordHash, password) {
		s.logger.Warn("failed login", zap.String("username", admin.Username))
		return nil, errInvalidCredentials
	}

	return s.issue(model.Principal{
		Subject:  admin.ID,
		Name:     admin.Username,
		Role:     model.RoleAdmin,
		Provider: model.ProviderPassword,
	})
}

// GoogleLogin verifies a Google ID token. Addresses listed as admins get the
// admin role; other verified addresses in an allowed domain get viewer.
func (s *AuthService) GoogleLogin(ctx context.Context, rawToken string) (*model.LoginResponse, error) {
	if s.google == nil || s.clientID == "" {
		return nil, apperror.Forbidden{Reason: "google sign-in is not configured"}
	}

	payload, err := s.google.Validate(ctx, rawToken, s.clientID)
	if err != nil {
		s.logger.Warn("rejected google token", zap.Error(err))
		return nil, apperror.Unauthorized{Reason: "invalid google id token"}
	}

	email, _ := payload.Claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return nil, apperror.Unauthorized{Reason: "google account email is not verified"}
	}

	role, ok := s.roleFor(email)
	if !ok {
		s.logger.Warn("google account not allowed", zap.String("email", email))
		return nil, apperror.Forbidden{Reason: "account is not allowed to sign in"}
	}

	name, _ := payload.Claims["name"].(string)

	return s.issue(model.Principal{
		Subject:  payload.Subject,
		Name:     name,
		Email:    email,
		Role:     role,
		Provider: model.ProviderGoogle,
	})
}

func (s *AuthService) roleFor(email string) (string, bool) {
	if s.admins[email] {
		return model.RoleAdmin, true
	}

	_, domain, _ := strings.Cut(email, "@")
	if s.domains[domain] {
		return model.RoleViewer, true
	}

	return "", false
}

// Logout revokes the session's token until it would have expired anyway.
func (s *AuthService) Logout(session *Session) {
	s.revoked.revoke(session.TokenID, session.ExpiresAt)
	s.logger.Info("logged out", zap.String("sub", session.Subject))
}

// Parse validates a session token's signature, expiry and revocation.
func (s *AuthService) Parse(tokenStr string) (*Session, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized{Reason: "invalid token"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized{Reason: "invalid token claims"}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, apperror.Unauthorized{Reason: "token has no expiry"}
	}

	session := &Session{
		Principal: model.Principal{
			Subject:  claimString(claims, "sub"),
			Name:     claimString(claims, "name"),
			Email:    claimString(claims, "email"),
			Role:     claimString(claims, "role"),
			Provider: claimString(claims, "provider"),
		},
		TokenID:   claimString(claims, "jti"),
		ExpiresAt: exp.Time,
	}

	if session.TokenID == "" || session.Subject == "" {
		return nil, apperror.Unauthorized{Reason: "invalid token claims"}
	}

	if s.revoked.isRevoked(session.TokenID, s.now()) {
		return nil, apperror.Unauthorized{Reason: "token has been revoked"}
	}

	return session, nil
}

// Revoked reports whether the token with the given ID was signed out.
func (s *AuthService) Revoked(tokenID string) bool {
	return s.revoked.isRevoked(tokenID, s.now())
}

// SeedAdmin creates the local admin account or resets its password.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.ValidationErrors{"username": "is required"}
	}
	if err := utils.ValidatePasswordStrong(password); err != nil {
		return model.ValidationErrors{"password": err.Error()}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return s.repo.UpsertAdmin(ctx, username, hash)
}

func (s *AuthService) issue(p model.Principal) (*model.LoginResponse, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      p.Subject,
		"name":     p.Name,
		"email":    p.Email,
		"role":     p.Role,
		"provider": p.Provider,
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	})

	tokenStr, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: tokenStr, ExpiresAt: time.Unix(exp.Unix(), 0).UTC(), User: p}, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// revocationList remembers logged out token IDs until they expire.
type revocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newRevocationList() *revocationList {
	return &revocationList{entries: make(map[string]time.Time)}
}

func (r *revocationList) revoke(id string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = until
}

func (r *revocationList) isRevoked(id string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, until := range r.entries {
		if !now.Before(until) {
			delete(r.entries, k)
		}
	}

	_, ok := r.entries[id]
	return ok
}
