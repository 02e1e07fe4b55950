package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"alcyxob/bodytrack/internal/authz"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextPrincipalKey holds the authenticated authz.Principal.
const ContextPrincipalKey = "principal"

// AuthMiddleware validates the Bearer token and loads the caller.
// Tokens of deleted or disabled accounts are rejected even before they expire.
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			respondError(c, err)
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		principal, err := auth.Identify(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(ContextPrincipalKey, *principal)
		c.Next()
	}
}

// SubjectResolver loads the owner of the resource a request targets.
type SubjectResolver func(c *gin.Context) (*authz.Subject, error)

// Authorize checks op against the policy before the handler runs. The
// resolver is only called when the caller's role needs an ownership check.
// Must run AFTER AuthMiddleware.
func Authorize(policy authz.Policy, op authz.Operation, resolve SubjectResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := getPrincipal(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}

		var subject *authz.Subject
		if resolve != nil && policy.NeedsSubject(op, principal.Role) {
			if subject, err = resolve(c); err != nil {
				respondError(c, err)
				return
			}
		}

		if err := policy.Authorize(op, principal, subject); err != nil {
			log.WithFields(log.Fields{
				"user":      principal.UserID.Hex(),
				"role":      principal.Role,
				"operation": op,
				"path":      c.Request.URL.Path,
			}).Debug("access denied")
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// RequestLogger logs one line per request through logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func getPrincipal(c *gin.Context) (authz.Principal, error) {
	raw, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return authz.Principal{}, errors.New("principal not found in context")
	}
	p, ok := raw.(authz.Principal)
	if !ok {
		return authz.Principal{}, errors.New("invalid principal type in context")
	}
	return p, nil
}

// mustPrincipal is for handlers mounted behind AuthMiddleware.
func mustPrincipal(c *gin.Context) authz.Principal {
	p, err := getPrincipal(c)
	if err != nil {
		panic(err)
	}
	return p
}
