package http

import (
	"net/http"
	"strings"
	"time"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/policy"
	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const userKey = "user"

func LogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":     c.Request.Method,
			"url":        c.Request.URL.String(),
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"remoteAddr": c.ClientIP(),
			"userAgent":  c.Request.UserAgent(),
		}).Info("handled request")
	}
}

// Authenticate resolves the session from the cookie or a bearer token and
// stores the user in the context. Requests without a valid session continue
// anonymously; RequireAuth decides whether that is acceptable.
func Authenticate(authSvc *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token != "" {
			user, err := authSvc.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(userKey, user)
			case domain.KindOf(err) != domain.KindUnauthenticated:
				respondError(c, err)
				return
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserFromContext(c); !ok {
			respondError(c, domain.ErrUnauthenticated)
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(p *policy.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := GetUserFromContext(c)
		ok, err := p.IsAdmin(user)
		if err != nil {
			respondError(c, err)
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

func currentUser(c *gin.Context) *domain.User {
	user, _ := GetUserFromContext(c)
	return user
}
