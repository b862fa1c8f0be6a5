package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lecture-backend/internal/domains/lecture/service"
	"lecture-backend/internal/shared/response"
)

type ValuesHandler struct {
	valuesService service.ValuesServiceInterface
}

func NewValuesHandler(valuesService service.ValuesServiceInterface) *ValuesHandler {
	return &ValuesHandler{valuesService: valuesService}
}

// NamesByPrefix godoc
// GET /api/v1/lectures/name/:prefix
func (h *ValuesHandler) NamesByPrefix(c *gin.Context) {
	names, err := h.valuesService.FindNamesByPrefix(c.Request.Context(), c.Param("prefix"))
	if err != nil {
		mapLectureError(c, err)
		return
	}
	response.Success(c, http.StatusOK, names)
}

// VersionByID godoc
// GET /api/v1/lectures/version/:id → text/plain
func (h *ValuesHandler) VersionByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	version, err := h.valuesService.FindVersionByID(c.Request.Context(), id)
	if err != nil {
		mapLectureError(c, err)
		return
	}
	c.String(http.StatusOK, strconv.Itoa(version))
}
