package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lecture-backend/internal/domains/lecture/model"
	"lecture-backend/internal/domains/lecture/service"
	"lecture-backend/internal/shared/response"
)

type MultimediaHandler struct {
	multimediaService service.MultimediaServiceInterface
	maxSize           int64
}

func NewMultimediaHandler(multimediaService service.MultimediaServiceInterface, maxSize int64) *MultimediaHandler {
	return &MultimediaHandler{multimediaService: multimediaService, maxSize: maxSize}
}

// Upload godoc
// PUT /api/v1/multimedia/:id
// Body là raw bytes (Content-Type bắt buộc) hoặc multipart field "file"
func (h *MultimediaHandler) Upload(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// one extra byte lets the service see oversize uploads
	if h.maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1)
	}

	data, contentType, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "upload too large")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.multimediaService.Upload(c.Request.Context(), id, data, contentType); err != nil {
		mapLectureError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, "", err
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, "", err
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		return data, contentType, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, "", err
	}
	return data, c.GetHeader("Content-Type"), nil
}

// Download godoc
// GET /api/v1/multimedia/:id?variant=thumbnail
func (h *MultimediaHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	media, err := h.multimediaService.Download(c.Request.Context(), id, c.DefaultQuery("variant", model.VariantOriginal))
	if err != nil {
		mapLectureError(c, err)
		return
	}
	c.Data(http.StatusOK, media.ContentType, media.Data)
}
