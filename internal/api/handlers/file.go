package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rohits-web03/filebridge/internal/apperr"
	"github.com/rohits-web03/filebridge/internal/models"
	"github.com/rohits-web03/filebridge/internal/services"
	"github.com/rohits-web03/filebridge/internal/utils"
	"go.uber.org/zap"
)

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope.
const multipartOverhead = 1 << 20

// FileService is the part of services.Coordinator the HTTP layer uses.
type FileService interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.FileRecord, error)
	Get(ctx context.Context, rawID string) (*services.FileView, error)
	List(ctx context.Context) ([]services.FileView, error)
	Delete(ctx context.Context, rawID string) error
	ListObjects(ctx context.Context) ([]string, error)
	PresignObject(ctx context.Context, key string) (string, error)
}

type FileHandler struct {
	files         FileService
	maxUploadSize int64
	log           *zap.Logger
}

func NewFileHandler(files FileService, maxUploadSize int64, log *zap.Logger) *FileHandler {
	return &FileHandler{files: files, maxUploadSize: maxUploadSize, log: log.Named("handlers")}
}

type UploadResponse struct {
	Message  string `json:"message"`
	FileName string `json:"filename"`
	ID       string `json:"id"`
}

type FileResponse struct {
	ID           string    `json:"id"`
	FileName     string    `json:"filename"`
	Size         int64     `json:"size"`
	Format       string    `json:"format"`
	Type         string    `json:"type"`
	UploadedDate time.Time `json:"uploaded_date"`
	URL          *string   `json:"url"`
}

func newFileResponse(v services.FileView) FileResponse {
	return FileResponse{
		ID:           v.Record.ID.String(),
		FileName:     v.Record.FileName,
		Size:         v.Record.Size,
		Format:       v.Record.Format,
		Type:         v.Record.FileType,
		UploadedDate: v.Record.UploadedDate,
		URL:          v.URL,
	}
}

// POST /api/files/upload
// Upload godoc
// @Summary Upload a file
// @Description Stores the file in the bucket and records its metadata. Type and size are taken from the content.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} utils.ErrorPayload
// @Failure 413 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/files/upload [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if limit := h.maxUploadSize + multipartOverhead; h.maxUploadSize > 0 {
		if r.ContentLength > limit {
			h.tooLarge(w)
			return
		}
		// Chunked bodies carry no length; cap them while parsing.
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(w)
			return
		}
		utils.ErrorResponse(w, r, h.log, apperr.New(apperr.KindInvalidInput, "Invalid file upload form", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ErrorResponse(w, r, h.log, apperr.New(apperr.KindInvalidInput, "No file provided", err))
		return
	}
	defer file.Close()

	if h.maxUploadSize > 0 && header.Size > h.maxUploadSize {
		h.tooLarge(w)
		return
	}

	rec, err := h.files.Upload(r.Context(), services.UploadInput{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		utils.ErrorResponse(w, r, h.log, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, UploadResponse{
		Message:  "File uploaded successfully",
		FileName: rec.FileName,
		ID:       rec.ID.String(),
	})
}

func (h *FileHandler) tooLarge(w http.ResponseWriter) {
	utils.JSONResponse(w, http.StatusRequestEntityTooLarge, utils.ErrorPayload{
		Success: false,
		Code:    string(apperr.KindInvalidInput),
		Message: "File exceeds the maximum upload size",
	})
}

// GET /api/files/
// List godoc
// @Summary List files
// @Description Returns every file of the configured bucket keyed by id. url is null when the object is missing.
// @Tags Files
// @Produce json
// @Success 200 {object} map[string]FileResponse
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/files/ [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.files.List(r.Context())
	if err != nil {
		utils.ErrorResponse(w, r, h.log, err)
		return
	}

	out := make(map[string]FileResponse, len(views))
	for _, v := range views {
		out[v.Record.ID.String()] = newFileResponse(v)
	}
	utils.JSONResponse(w, http.StatusOK, out)
}

// GET /api/files/{id}
// Get godoc
// @Summary Get a file
// @Tags Files
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} FileResponse
// @Failure 400 {object} utils.ErrorPayload
// @Failure 404 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/files/{id} [get]
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.files.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.ErrorResponse(w, r, h.log, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, newFileResponse(*view))
}

// DELETE /api/files/{id}
// Delete godoc
// @Summary Delete a file
// @Description Removes the stored object and its metadata.
// @Tags Files
// @Param id path string true "File id"
// @Success 204
// @Failure 400 {object} utils.ErrorPayload
// @Failure 404 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.files.Delete(r.Context(), r.PathValue("id")); err != nil {
		utils.ErrorResponse(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
