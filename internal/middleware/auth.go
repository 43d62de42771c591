package middleware

import (
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/requestdata"
  "github.com/kodywagner/prepflow-backend/internal/services"
  "github.com/kodywagner/prepflow-backend/internal/ssedata"
)

type AuthMiddleware struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }

    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
      TokenString: tokenString,
    })
    ctx, err := am.authService.SetContextFromToken(ctx)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
      return
    }
    ctx = ssedata.WithSSEData(ctx)
    c.Request = c.Request.WithContext(ctx)

    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}

// extractToken checks the query first so EventSource connections, which
// cannot set headers, can still authenticate.
func extractToken(c *gin.Context) string {
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
