package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"beercomi.dev/BeerComi/configs"
	"beercomi.dev/BeerComi/pkg/model"
)

const principalKey = "beercomi.principal"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the authenticated caller. It is built exactly once at
// the boundary and handed to everything below; handlers never re-decode
// the token.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

type userLookup interface {
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
}

type Manager struct {
	conf   *configs.Config
	repo   userLookup
	logger *zap.Logger
}

func NewManager(conf *configs.Config, repo userLookup, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, repo: repo, logger: logger}
}

// IssueToken signs an HMAC bearer token carrying the user id. Role is
// looked up fresh on every request, so a role change takes effect
// without re-issuing tokens.
func (m *Manager) IssueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"exp":          time.Now().Add(m.conf.Auth.TokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(m.conf.Auth.SecretKey))
}

// Middleware authenticates the bearer token and injects a Principal.
// Requests without a valid token are rejected with 401 before any
// handler runs.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := m.Authenticate(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

			return
		}

		c.Set(principalKey, *principal)
		c.Next()
	}
}

// RequireAdmin runs after Middleware and rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})

			return
		}

		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}

	principal, ok := value.(Principal)

	return principal, ok
}

// SetPrincipal is a test seam for handler tests.
func SetPrincipal(c *gin.Context, principal Principal) {
	c.Set(principalKey, principal)
}

func (m *Manager) Authenticate(req *http.Request) (*Principal, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected signing method: %v", ErrUnauthenticated, token.Header["alg"])
		}

		return []byte(m.conf.Auth.SecretKey), nil
	}

	accessToken, err := extractTokenFromHeader(req.Header)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(accessToken, jwt.MapClaims{}, keyFunc)
	if err != nil {
		m.logger.Warn("error parsing token", zap.Error(err))

		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}

	claims, found := token.Claims.(jwt.MapClaims)
	if !found || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}

	id, found := claims["id"].(float64)
	if !found {
		m.logger.Warn("no user id in token", zap.Any("claims", claims))

		return nil, fmt.Errorf("%w: no user id in token", ErrUnauthenticated)
	}

	user, err := m.repo.GetUserByID(req.Context(), uint(id))
	if err != nil {
		m.logger.Warn("error authenticating user", zap.Error(err))

		return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
	}

	return &Principal{UserID: user.ID, Role: user.Role}, nil
}

func extractTokenFromHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		return "", fmt.Errorf("%w: authorization header not found", ErrUnauthenticated)
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return "", fmt.Errorf("%w: authorization format must be Bearer {token}", ErrUnauthenticated)
	}

	return token, nil
}

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
