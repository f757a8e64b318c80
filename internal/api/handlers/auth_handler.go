package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillproctor/internal/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CandidateLoginRequest struct {
	Email       string `json:"email" binding:"required"`
	CandidateID string `json:"candidate_id" binding:"required"`
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if !bindJSON(c, "AuthHandler.AdminLogin", &req) {
		return
	}

	sess, err := h.svc.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) CandidateLogin(c *gin.Context) {
	var req CandidateLoginRequest
	if !bindJSON(c, "AuthHandler.CandidateLogin", &req) {
		return
	}

	sess, err := h.svc.CandidateLogin(c.Request.Context(), req.Email, req.CandidateID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
