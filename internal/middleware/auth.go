package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"transfer-service/internal/cache"
	"transfer-service/internal/domain"
	"transfer-service/internal/response"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const userCacheTTL = 60 * time.Second

type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware verifies bearer tokens and resolves the current user,
// cache-first with the database as fallback. The same path authenticates
// both HTTP requests and websocket handshakes.
type AuthMiddleware struct {
	secret []byte
	users  UserStore
	cache  *cache.Cache
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, users UserStore, c *cache.Cache, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		users:  users,
		cache:  c,
		logger: logger,
	}
}

func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := r.Cookie("token"); err == nil {
		return cookie.Value
	}
	// Websocket handshakes carry the token as a query parameter.
	if q := r.URL.Query().Get("token"); q != "" {
		return q
	}
	return ""
}

func (am *AuthMiddleware) parseToken(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return am.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Authenticate verifies a raw token and returns the active user behind
// it. Inactive or unknown users are refused.
func (am *AuthMiddleware) Authenticate(ctx context.Context, tokenStr string) (*domain.User, error) {
	if tokenStr == "" {
		return nil, domain.ErrInvalidToken
	}
	claims, err := am.parseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := am.lookupUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

// lookupUser is cache-first: a short-lived redis snapshot of the user
// row, falling back to the database on miss or cache failure.
func (am *AuthMiddleware) lookupUser(ctx context.Context, id int64) (*domain.User, error) {
	key := jwtCacheKey(id)
	if am.cache != nil {
		if raw, err := am.cache.Get(ctx, "user", key); err == nil && raw != "" {
			var u domain.User
			if err := json.Unmarshal([]byte(raw), &u); err == nil {
				return &u, nil
			}
		}
	}

	user, err := am.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if am.cache != nil {
		if raw, err := json.Marshal(user); err == nil {
			if err := am.cache.Set(ctx, "user", key, raw, userCacheTTL); err != nil {
				am.logger.Warn("failed to cache user snapshot", zap.Int64("user_id", id), zap.Error(err))
			}
		}
	}
	return user, nil
}

func jwtCacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// AuthenticateRequest is the handshake path: it pulls the token off the
// request and authenticates it without touching the response, so the
// caller can refuse before upgrading.
func (am *AuthMiddleware) AuthenticateRequest(r *http.Request) (*domain.User, error) {
	return am.Authenticate(r.Context(), extractToken(r))
}

// RequireAuth authenticates the request and stashes the user id and
// role in the context.
func (am *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := am.Authenticate(r.Context(), extractToken(r))
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextUserID, user.ID)
		ctx = context.WithValue(ctx, ContextRole, user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route on the authenticated user's role.
func (am *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := GetRole(r.Context())
			if !ok || current != role {
				response.Error(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
