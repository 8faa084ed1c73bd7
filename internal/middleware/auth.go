package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"cashmesh/internal/config"
	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/logger"
)

const (
	userIDKey       = "userID"
	tokenIssuer     = "cashmesh-api"
	tokenTypeAccess = "access"
)

var errInvalidToken = apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token")

// ActorResolver identifies the user on whose behalf a request acts.
type ActorResolver interface {
	Resolve(r *http.Request) (uint, error)
}

// NewActorResolver builds the resolver selected by cfg.AuthMode.
func NewActorResolver(cfg *config.Config) (ActorResolver, error) {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		return &JWTResolver{Secret: []byte(cfg.JWTSecret)}, nil
	case config.AuthModeStatic:
		logger.Get().Warnw("static actor resolution enabled; every request acts as one user",
			"actor_id", cfg.StaticActorID)
		return StaticResolver{ActorID: cfg.StaticActorID}, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.AuthMode)
	}
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an HS256 access token for userID valid for ttl.
func GenerateAccessToken(userID uint, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    userID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// JWTResolver reads the actor from a bearer access token.
type JWTResolver struct {
	Secret []byte
}

// Resolve implements ActorResolver.
func (r *JWTResolver) Resolve(req *http.Request) (uint, error) {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return 0, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format")
	}

	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.Secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return 0, apperrors.Wrap(errInvalidToken, err)
	}

	// Reject refresh or otherwise non-access tokens
	if claims.TokenType != tokenTypeAccess || claims.UserID == 0 {
		return 0, errInvalidToken
	}
	return claims.UserID, nil
}

// StaticResolver attributes every request to a single configured user.
// Intended for local development only.
type StaticResolver struct {
	ActorID uint
}

// Resolve implements ActorResolver.
func (r StaticResolver) Resolve(*http.Request) (uint, error) {
	return r.ActorID, nil
}

// AuthMiddleware resolves the acting user and stores its ID in the context.
func AuthMiddleware(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.Resolve(c.Request)
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.Wrap(apperrors.ErrUnauthorized, err)
			}
			c.AbortWithStatusJSON(appErr.StatusCode, gin.H{"error": errorBody(appErr)})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
