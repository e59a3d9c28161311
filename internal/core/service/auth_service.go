package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/roncloudtech/hospital-remittance/internal/api/metrics"
	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
	"github.com/roncloudtech/hospital-remittance/internal/core/ports"
)

const resetTokenTTL = 15 * time.Minute

// AuthService implements registration, login, logout and session resolution.
// A login mints an HS256 JWT that names a server-side session; the token is
// only as alive as that session, so logout and idle expiry revoke it
// immediately regardless of the JWT's own expiry.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionStore
	resets    ports.ResetTokenStore
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	idle      time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, resets ports.ResetTokenStore, audit ports.AuditRecorder, jwtSecret string, tokenTTL, idleTimeout time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if idleTimeout <= 0 {
		idleTimeout = 5 * time.Minute
	}
	return &AuthService{
		users:     users,
		sessions:  sessions,
		resets:    resets,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		idle:      idleTimeout,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := domain.ParseRole(input.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(ctx, created.ID, created.Email, domain.AuditUserRegistered, created.ID)
	return created, nil
}

// Login verifies credentials and creates a session. The token/user pair is
// persisted in a single store write, so readers never observe one half.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	id := randomID(16)
	token, err := s.mintToken(id, user)
	if err != nil {
		return nil, err
	}

	public := *user
	public.PasswordHash = ""
	now := s.now().UTC()
	session := &domain.Session{
		ID:        id,
		Token:     token,
		User:      &public,
		CreatedAt: now,
		LastSeen:  now,
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.ActiveSessions.Inc()
	s.record(ctx, user.ID, user.Email, domain.AuditLogin, id)
	s.log.Info().Str("user_id", user.ID).Str("session_id", id).Msg("login")

	return session, nil
}

// Logout destroys the session. Logging out an already-absent session leaves
// state unchanged and returns nil.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return s.sessions.Delete(ctx, sessionID)
	}
	if sess.User != nil {
		s.record(ctx, sess.User.ID, sess.User.Email, domain.AuditLogout, sessionID)
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	metrics.ActiveSessions.Dec()
	return nil
}

// Resolve validates a presented bearer token against its server-side
// session. Each successful resolution touches the session, sliding the idle
// window.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Find(ctx, sid)
	if err != nil {
		return nil, err
	}
	// A token that no longer matches its session was superseded or revoked.
	if session.Token != token {
		return nil, domain.ErrSessionNotFound
	}

	now := s.now().UTC()
	if now.Sub(session.LastSeen) >= s.idle {
		if err := s.sessions.Delete(ctx, sid); err != nil {
			s.log.Warn().Err(err).Str("session_id", sid).Msg("expired session delete failed")
		} else {
			metrics.ActiveSessions.Dec()
		}
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessions.Touch(ctx, sid, now); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("session touch failed")
	}
	session.LastSeen = now
	return session, nil
}

// ForgotPassword issues a short-lived reset token. A missing account is not
// reported to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Info().Str("email", email).Msg("password reset requested for unknown account")
		return nil
	}

	token := randomID(32)
	if err := s.resets.Issue(ctx, token, user.ID, resetTokenTTL); err != nil {
		return err
	}

	// Mail delivery is owned by an external service; the token is logged for
	// the operator until that integration lands.
	s.log.Info().Str("user_id", user.ID).Str("reset_token", token).Msg("password reset token issued")
	return nil
}

// ResetPassword redeems a reset token and replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return domain.ErrInvalidCredentials
	}

	userID, err := s.resets.Redeem(ctx, token)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now().UTC()

	_, err = s.users.Update(ctx, user)
	return err
}

func (s *AuthService) mintToken(sessionID string, user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sid":   sessionID,
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   s.now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) record(ctx context.Context, actorID, actorEmail, action, entityID string) {
	entry := &domain.AuditEntry{
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Action:     action,
		EntityID:   entityID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit write failed")
	}
}

// randomID returns n random bytes hex-encoded, falling back to a timestamp
// when the entropy source is unavailable.
func randomID(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}
