package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/kodywagner/prepflow-backend/internal/requestdata"
  "github.com/kodywagner/prepflow-backend/internal/services"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email     string `json:"email"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Password  string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, tokens, err := ah.authService.RegisterUser(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  c.JSON(http.StatusOK, gin.H{
    "user":          user,
    "access_token":  tokens.AccessToken,
    "refresh_token": tokens.RefreshToken,
    "expires_in":    expiresIn,
  })
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user, tokens, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  c.JSON(http.StatusOK, gin.H{
    "user":          user,
    "access_token":  tokens.AccessToken,
    "refresh_token": tokens.RefreshToken,
    "expires_in":    expiresIn,
  })
}

// Refresh is public: the access token may already be expired, so the
// rotation is authenticated by the refresh token alone.
func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing refresh_token"})
    return
  }
  ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
    RefreshToken: req.RefreshToken,
  })
  tokens, err := ah.authService.RefreshUser(ctx)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())
  c.JSON(http.StatusOK, gin.H{
    "access_token":  tokens.AccessToken,
    "refresh_token": tokens.RefreshToken,
    "expires_in":    expiresIn,
  })
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
