package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	RoleAdmin = "admin"

	TokenTypeAccess = "access"
	TokenTypeStream = "stream"

	streamTokenTTL   = 5 * time.Minute
	revokedRetention = 48 * time.Hour
)

type Service interface {
	// GenerateAdminToken issues the session token for an unlocked admin panel.
	GenerateAdminToken() (token string, expiresAt int64, err error)
	// GenerateStreamToken issues a short-lived token for the punch stream,
	// which cannot carry an Authorization header.
	GenerateStreamToken(sessionID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (sessionID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	PruneRevokedTokens() int
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAdminToken() (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	sessionID, err := uuid.NewV7()
	if err != nil {
		return "", 0, err
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sid":  sessionID.String(),
		"role": RoleAdmin,
		"type": TokenTypeAccess,
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = j.now().Unix()
}

// PruneRevokedTokens forgets revocations older than the session lifetime,
// whose tokens have expired anyway, and returns how many were dropped.
func (j *JWTService) PruneRevokedTokens() int {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		expDuration = revokedRetention
	}
	cutoff := j.now().Add(-expDuration).Unix()

	j.mu.Lock()
	defer j.mu.Unlock()

	pruned := 0
	for t, revokedAt := range j.revokedTokens {
		if revokedAt < cutoff {
			delete(j.revokedTokens, t)
			pruned++
		}
	}
	return pruned
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateStreamToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateStreamToken(sessionID string) (token string, expiresIn int, err error) {
	expiresIn = int(streamTokenTTL / time.Second)
	expiresAt := j.now().Add(streamTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sid":  sessionID,
		"role": RoleAdmin,
		"type": TokenTypeStream,
		"exp":  expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateStreamToken validates a stream token and returns its session ID
func (j *JWTService) ValidateStreamToken(tokenString string) (sessionID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeStream {
		return "", jwt.ErrInvalidJWT()
	}

	sid, ok := token.Get("sid")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	sessionID, ok = sid.(string)
	if !ok || sessionID == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return sessionID, nil
}
