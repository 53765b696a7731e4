package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Tenant and actor identity arrive from the upstream gateway as trusted
// headers. Authentication itself happens before requests reach this
// service; here the values are only extracted and required.
const (
	companyIDHeader = "X-Company-ID"
	actorIDHeader   = "X-Actor-ID"

	companyIDKey = contextKey("companyID")
	actorIDKey   = contextKey("actorID")
)

// TenantContextMiddleware requires the company and actor headers and puts
// them into the Gin context.
func TenantContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader(companyIDHeader)
		if companyID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + companyIDHeader + " header"})
			return
		}
		actorID := c.GetHeader(actorIDHeader)
		if actorID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + actorIDHeader + " header"})
			return
		}

		c.Set(string(companyIDKey), companyID)
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetCompanyIDFromContext retrieves the tenant company ID from the Gin context.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(companyIDKey))
	if !exists {
		return "", false
	}
	companyID, ok := val.(string)
	return companyID, ok
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}
	actorID, ok := val.(string)
	return actorID, ok
}
