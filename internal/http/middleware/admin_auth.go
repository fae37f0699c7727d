package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/markoori/variant-backend/internal/auth"
	"github.com/markoori/variant-backend/internal/platform/ctxutil"
	"github.com/markoori/variant-backend/internal/platform/logger"
)

const headerAdminSecret = "X-Admin-Secret"

type AdminAuthMiddleware struct {
	log        *logger.Logger
	authorizer auth.Authorizer
}

func NewAdminAuthMiddleware(log *logger.Logger, authorizer auth.Authorizer) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		log:        log.With("Middleware", "AdminAuthMiddleware"),
		authorizer: authorizer,
	}
}

func (am *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(c.GetHeader(headerAdminSecret))
		if !am.authorizer.Authorize(secret) {
			log := am.log
			if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
				log = log.With("request_id", td.RequestID)
			}
			log.Warn("Admin request rejected", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid admin secret", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}
