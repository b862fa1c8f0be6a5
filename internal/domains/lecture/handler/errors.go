package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	accountModel "lecture-backend/internal/domains/account/model"
	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/shared/response"
)

// mapLectureError translates service errors into HTTP responses
func mapLectureError(c *gin.Context, err error) {
	code := "LECTURE_ERROR"
	var lerr *model.LectureError
	if errors.As(err, &lerr) {
		code = lerr.Code
	}

	var cv *model.ConstraintViolationError
	var forbidden *model.AccessForbiddenError
	var precondition *PreconditionError

	switch {
	case errors.As(err, &precondition):
		response.PreconditionFailed(c, "PRECONDITION_FAILED", precondition.Message)
	case errors.As(err, &cv):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeConstraintViolation, "constraint violation", cv.Violations)
	case errors.As(err, &forbidden):
		response.ErrorWithDetails(c, http.StatusForbidden, model.ErrCodeAccessForbidden, forbidden.Error(), forbidden.Roles)
	case errors.Is(err, model.ErrLectureNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeLectureNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidVersion), errors.Is(err, model.ErrPreconditionFailed):
		response.PreconditionFailed(c, code, err.Error())
	case errors.Is(err, model.ErrInvalidAccount), errors.Is(err, model.ErrNameExists):
		response.ErrorResponse(c, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, accountModel.ErrUsernameExists):
		response.ErrorResponse(c, http.StatusBadRequest, "USERNAME_EXISTS", err.Error())
	case errors.Is(err, model.ErrStoreUnavailable):
		response.ServiceUnavailable(c, err.Error())
	case errors.Is(err, model.ErrMediaNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrInvalidMedia):
		response.BadRequest(c, err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled lecture error")
		response.InternalServerError(c, "internal server error")
	}
}
