package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lecture-backend/internal/domains/account/model"
	"lecture-backend/internal/domains/account/service"
	"lecture-backend/internal/shared/middleware"
	"lecture-backend/internal/shared/response"
)

type AccountHandler struct {
	accountService service.ServiceInterface
}

func NewAccountHandler(accountService service.ServiceInterface) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Login issues an access token
// POST /api/v1/auth/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid login request", err)
		return
	}

	result, err := h.accountService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			response.Unauthorized(c, err.Error())
		case errors.Is(err, model.ErrTooManyAttempts):
			response.ErrorResponse(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", err.Error())
		default:
			response.InternalServerError(c, "login failed")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Roles returns the roles of the authenticated caller
// GET /api/v1/auth/roles
func (h *AccountHandler) Roles(c *gin.Context) {
	username := middleware.Username(c)

	roles, found, err := h.accountService.RolesOf(c.Request.Context(), username)
	if err != nil {
		response.InternalServerError(c, "failed to resolve roles")
		return
	}
	if !found {
		response.NotFound(c, "account not found")
		return
	}

	response.Success(c, http.StatusOK, model.RolesResponse{
		Username: username,
		Roles:    roles,
	})
}
