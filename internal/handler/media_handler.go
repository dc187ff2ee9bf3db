package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// photoField is the multipart field carrying the image.
const photoField = "foto"

// MediaHandler handles photo upload endpoints.
type MediaHandler struct {
	mediaService *service.MediaService
	log          zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log.With().Str("component", "media_handler").Logger(),
	}
}

// UploadStudentPhoto godoc
// POST /upload/alumnos
func (h *MediaHandler) UploadStudentPhoto(c *gin.Context) {
	h.upload(c, service.UploadStudents)
}

// UploadTeacherPhoto godoc
// POST /upload/maestros
func (h *MediaHandler) UploadTeacherPhoto(c *gin.Context) {
	h.upload(c, service.UploadTeachers)
}

// upload accepts exactly one file under photoField. The body is capped
// before the multipart form is spooled to disk.
func (h *MediaHandler) upload(c *gin.Context, target service.UploadTarget) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.mediaService.MaxRequestBytes())

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer form.RemoveAll()

	headers := form.File[photoField]
	switch {
	case len(headers) == 0:
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	case len(headers) > 1:
		response.Fail(c, http.StatusBadRequest, response.ErrTooManyFiles)
		return
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	defer file.Close()

	res, err := h.mediaService.SaveUpload(target, file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		default:
			failWith(c, h.log, err)
		}
		return
	}

	response.Created(c, res)
}
