package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/service"
	"lecture-backend/internal/shared/middleware"
	"lecture-backend/internal/shared/response"
)

type LectureHandler struct {
	lectureService service.ServiceInterface
}

func NewLectureHandler(lectureService service.ServiceInterface) *LectureHandler {
	return &LectureHandler{lectureService: lectureService}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// ids that are not uuids cannot exist
		response.NotFound(c, fmt.Sprintf("no lecture with id %s", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// GetByID godoc
// GET /api/v1/lectures/:id
// Trả về 304 nếu If-None-Match khớp với ETag hiện tại
func (h *LectureHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	lecture, err := h.lectureService.FindByID(c.Request.Context(), id, middleware.Username(c))
	if err != nil {
		mapLectureError(c, err)
		return
	}

	etag := lecture.ETag()
	if MatchesIfNoneMatch(c.GetHeader("If-None-Match"), etag) {
		c.Header("ETag", etag)
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	response.Success(c, http.StatusOK, lecture)
}

// Find godoc
// GET /api/v1/lectures?name=...&instructor.lastName=...&room.number=...&room.building=...
// Accept: text/event-stream streams every lecture instead
func (h *LectureHandler) Find(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		h.stream(c)
		return
	}

	lectures, err := h.lectureService.Find(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		mapLectureError(c, err)
		return
	}
	if len(lectures) == 0 {
		response.NotFound(c, "no lectures found")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, lectures, &response.Meta{Total: len(lectures)})
}

// stream sends one "lecture" event per lecture until done or the client leaves
func (h *LectureHandler) stream(c *gin.Context) {
	ctx := c.Request.Context()
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	sent := 0
	for lecture, err := range h.lectureService.Stream(ctx) {
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Msg("Lecture stream aborted")
				c.SSEvent("error", err.Error())
			}
			break
		}
		c.SSEvent("lecture", lecture)
		c.Writer.Flush()
		sent++
	}

	log.Debug().Int("sent", sent).Msg("Lecture stream finished")
}

// Create godoc
// POST /api/v1/lectures
func (h *LectureHandler) Create(c *gin.Context) {
	var req model.LectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	lecture, err := h.lectureService.Create(c.Request.Context(), req.ToLecture())
	if err != nil {
		mapLectureError(c, err)
		return
	}

	c.Header("Location", locationOf(c, lecture.ID))
	c.Header("ETag", lecture.ETag())
	response.Success(c, http.StatusCreated, lecture)
}

func locationOf(c *gin.Context, id uuid.UUID) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	path := strings.TrimSuffix(c.Request.URL.Path, "/")
	return fmt.Sprintf("%s://%s%s/%s", scheme, c.Request.Host, path, id)
}

// Update godoc
// PUT /api/v1/lectures/:id
// Bắt buộc header If-Match: "<version>"
func (h *LectureHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Received -> VersionPreconditionChecked
	version, err := ParseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		mapLectureError(c, err)
		return
	}

	// -> BodyDecoded
	var req model.LectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// -> ServiceInvoked
	updated, err := h.lectureService.Update(c.Request.Context(), req.ToLecture(), id, version)
	if err != nil {
		mapLectureError(c, err)
		return
	}

	c.Header("ETag", updated.ETag())
	c.Status(http.StatusNoContent)
}

// DeleteByID godoc
// DELETE /api/v1/lectures/:id (admin)
func (h *LectureHandler) DeleteByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// nothing to delete
		c.Status(http.StatusNoContent)
		return
	}

	if _, err := h.lectureService.DeleteByID(c.Request.Context(), id); err != nil {
		mapLectureError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteByName godoc
// DELETE /api/v1/lectures?name=... (admin)
func (h *LectureHandler) DeleteByName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.BadRequest(c, "query parameter name is required")
		return
	}

	if _, err := h.lectureService.DeleteByName(c.Request.Context(), name); err != nil {
		mapLectureError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export godoc
// GET /api/v1/lectures/export (admin)
func (h *LectureHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.lectureService.Export(c.Request.Context(), &buf); err != nil {
		mapLectureError(c, err)
		return
	}

	fileName := fmt.Sprintf("lectures_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
