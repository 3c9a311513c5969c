package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
)

type AuthHandler struct {
  log             *logger.Logger
  authService     services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
  return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Name          string    `json:"name"`
    Email         string    `json:"email"`
    Password      string    `json:"password"`
    PhoneNumber   string    `json:"phone_number"`
  }
  if err := bindJSON(c, &req); err != nil {
    respondError(c, ah.log, err)
    return
  }
  account, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
    Name:         req.Name,
    Email:        req.Email,
    Password:     req.Password,
    PhoneNumber:  req.PhoneNumber,
  })
  if err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully.", "user": account})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email       string    `json:"email"`
    Password    string    `json:"password"`
  }
  // Missing fields are reported by the service.
  _ = c.ShouldBindJSON(&req)
  account, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "message": "OTP sent to your email.",
    "user": gin.H{"id": account.ID, "name": account.Name, "email": account.Email},
  })
}

func (ah *AuthHandler) VerifyOTP(c *gin.Context) {
  var req struct {
    Email       string    `json:"email" binding:"required"`
    OTPCode     string    `json:"otp_code" binding:"required"`
  }
  if err := bindJSON(c, &req); err != nil {
    respondError(c, ah.log, err)
    return
  }
  _, pair, err := ah.authService.VerifyOTP(c.Request.Context(), req.Email, req.OTPCode)
  if err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "message":    "OTP verified successfully.",
    "access":     pair.Access,
    "refresh":    pair.Refresh,
    "expires_in": pair.ExpiresIn,
  })
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    Refresh     string    `json:"refresh"`
  }
  // An empty or malformed body is the same as a missing token.
  _ = c.ShouldBindJSON(&req)
  pair, err := ah.authService.Refresh(c.Request.Context(), req.Refresh)
  if err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh, "expires_in": pair.ExpiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  var req struct {
    Refresh     string    `json:"refresh"`
    All         bool      `json:"all"`
  }
  _ = c.ShouldBindJSON(&req)
  if err := ah.authService.Logout(c.Request.Context(), req.Refresh, req.All); err != nil {
    respondError(c, ah.log, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out."})
}
