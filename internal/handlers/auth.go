package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/service"
)

const refreshCookie = "refresh_token"

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	AccessToken string           `json:"access_token"`
	User        service.UserView `json:"user"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	username := req.Username
	if username == "" {
		username = req.Email
	}

	result, err := h.svc.Auth.Login(c.Request.Context(), username, req.Password)
	if err != nil {
		h.metrics.AuthEvent("login", "failure")
		h.writeError(c, err)
		return
	}
	h.metrics.AuthEvent("login", "success")

	h.setRefreshCookie(c, result)
	c.JSON(http.StatusOK, authResponse{AccessToken: result.AccessToken, User: result.User})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Age      int    `json:"age" binding:"gte=0"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Gender:   req.Gender,
		Address:  req.Address,
	})
	if err != nil {
		h.metrics.AuthEvent("register", "failure")
		h.writeError(c, err)
		return
	}
	h.metrics.AuthEvent("register", "success")

	c.JSON(http.StatusCreated, result)
}

// Refresh reads the refresh token from its cookie only; it never travels in
// a body.
func (h HandlerSet) Refresh(c *gin.Context) {
	presented, err := c.Cookie(refreshCookie)
	if err != nil || presented == "" {
		h.metrics.AuthEvent("refresh", "failure")
		h.writeError(c, service.ErrInvalidCredentials)
		return
	}

	result, err := h.svc.Auth.Refresh(c.Request.Context(), presented)
	if err != nil {
		h.metrics.AuthEvent("refresh", "failure")
		h.writeError(c, err)
		return
	}
	h.metrics.AuthEvent("refresh", "success")

	h.clearRefreshCookie(c)
	h.setRefreshCookie(c, result)
	c.JSON(http.StatusOK, authResponse{AccessToken: result.AccessToken, User: result.User})
}

func (h HandlerSet) Logout(c *gin.Context) {
	claims, _ := middleware.Claims(c)
	if err := h.svc.Auth.Logout(c.Request.Context(), claims.UserID); err != nil {
		h.writeError(c, err)
		return
	}
	h.metrics.AuthEvent("logout", "success")

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

func (h HandlerSet) Account(c *gin.Context) {
	claims, _ := middleware.Claims(c)
	c.JSON(http.StatusOK, gin.H{"user": h.svc.Auth.Account(c.Request.Context(), claims.Identity())})
}

// the cookie lives exactly as long as the refresh token it carries
func (h HandlerSet) setRefreshCookie(c *gin.Context, result service.AuthResult) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, result.RefreshToken, int(result.RefreshTTL.Seconds()), "/", "", h.cfg.Security.CookieSecure, true)
}

func (h HandlerSet) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.cfg.Security.CookieSecure, true)
}
