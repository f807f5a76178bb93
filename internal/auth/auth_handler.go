package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/config"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/apperror"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/request"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/shared/response"
)

type Handler struct {
	service Service
	cfg     config.AuthConfig
	isProd  bool
}

func NewHandler(service Service, cfg config.AuthConfig, isProd bool) *Handler {
	return &Handler{service: service, cfg: cfg, isProd: isProd}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	accessToken, refreshToken, user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := LoginResponse{User: user}
	if h.isWebClient(c) {
		h.setAuthCookies(c, accessToken, refreshToken)
	} else {
		resp.AccessToken = accessToken
		resp.RefreshToken = refreshToken
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Refresh token is required", nil)
			return
		}
		refreshToken = req.RefreshToken
	}

	accessToken, newRefreshToken, user, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := LoginResponse{User: user}
	if h.isWebClient(c) {
		h.setAuthCookies(c, accessToken, newRefreshToken)
	} else {
		resp.AccessToken = accessToken
		resp.RefreshToken = newRefreshToken
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id_validated")
	if userID == "" {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Unauthorized", nil)
		return
	}

	user, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user, nil)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user, nil)
}

func (h *Handler) isWebClient(c *gin.Context) bool {
	clientType := request.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	return request.IsWebClient(clientType)
}

func (h *Handler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", accessToken, int(h.cfg.AccessTokenTTL.Seconds()), "/", "", h.isProd, true)
	c.SetCookie("refresh_token", refreshToken, int(h.cfg.RefreshTokenTTL.Seconds()), "/", "", h.isProd, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", "", h.isProd, true)
	c.SetCookie("refresh_token", "", -1, "/", "", h.isProd, true)
}
