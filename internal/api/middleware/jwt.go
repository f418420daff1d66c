package middleware

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func abort(c *gin.Context, status int, code utils.Code, msg string) {
	c.AbortWithStatusJSON(status, apiError{Code: code, Message: msg})
}

type supabaseClaims struct {
	jwt.RegisteredClaims
	Role         string         `json:"role"`         // usually "authenticated" / "anon"
	AppMetadata  map[string]any `json:"app_metadata"` // put {"role":"admin"} here
	UserMetadata map[string]any `json:"user_metadata"`
}

// JWTConfig verifies Supabase HS256 access tokens. Issuer and Audience are
// only checked when set.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	// AllowQueryToken accepts ?access_token= for websocket upgrades, where
	// browsers cannot set the Authorization header.
	AllowQueryToken bool
}

func JWTConfigFromEnv() JWTConfig {
	return JWTConfig{
		Secret:          os.Getenv("SUPABASE_JWT_SECRET"),
		Issuer:          os.Getenv("SUPABASE_JWT_ISSUER"),
		Audience:        os.Getenv("SUPABASE_JWT_AUDIENCE"),
		AllowQueryToken: true,
	}
}

func bearerToken(c *gin.Context, allowQuery bool) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if allowQuery && websocketUpgrade(c.Request) {
		return strings.TrimSpace(c.Query("access_token"))
	}
	return ""
}

func websocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Secret == "" {
			abort(c, http.StatusInternalServerError, utils.CodeInternal, "SUPABASE_JWT_SECRET is not set")
			return
		}

		raw := bearerToken(c, cfg.AllowQueryToken)
		if raw == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}

		claims := &supabaseClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token issuer")
			return
		}
		if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token audience")
			return
		}

		userID := claims.Subject // Supabase user UUID lives in "sub"
		if userID == "" {
			abort(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing subject")
			return
		}

		c.Set("user_id", userID)
		c.Set("role", appRole(claims))
		c.Next()
	}
}

// appRole is the application role from app_metadata, "user" by default.
func appRole(claims *supabaseClaims) string {
	if claims.AppMetadata != nil {
		if s, ok := claims.AppMetadata["role"].(string); ok && s != "" {
			return s
		}
	}
	return "user"
}
