package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// obtainTokenPair handles POST /api/token.
func (h *Handler) obtainTokenPair(c *gin.Context) {
	var req tokenObtainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	_, td, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	loginsTotal.Inc()
	c.JSON(http.StatusOK, tokenPairResponse{
		Access:  td.AccessToken,
		Refresh: td.RefreshToken,
	})
}

// refreshToken handles POST /api/token/refresh.
func (h *Handler) refreshToken(c *gin.Context) {
	var req tokenRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	td, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	refreshesTotal.Inc()
	c.JSON(http.StatusOK, tokenPairResponse{
		Access:  td.AccessToken,
		Refresh: td.RefreshToken,
	})
}

// verifyToken handles POST /api/token/verify.
func (h *Handler) verifyToken(c *gin.Context) {
	var req tokenVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindingError(c, err)
		return
	}

	if _, err := h.authService.VerifyAccessToken(c.Request.Context(), req.Token); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
