package handlers

import (
	"net/http"

	"github.com/rohits-web03/filebridge/internal/utils"
)

type URLResponse struct {
	URL string `json:"url"`
}

// GET /api/files/images
// ListImages godoc
// @Summary List bucket objects
// @Description Lists object keys straight from the bucket, without metadata.
// @Tags Images
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/files/images [get]
func (h *FileHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	keys, err := h.files.ListObjects(r.Context())
	if err != nil {
		utils.ErrorResponse(w, r, h.log, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	utils.JSONResponse(w, http.StatusOK, keys)
}

// GET /api/files/images/{name}
// GetImageURL godoc
// @Summary Presign a bucket object
// @Description Returns a temporary download URL for a raw object key.
// @Tags Images
// @Produce json
// @Param name path string true "Object key"
// @Success 200 {object} URLResponse
// @Failure 404 {object} utils.ErrorPayload
// @Failure 500 {object} utils.ErrorPayload
// @Router /api/files/images/{name} [get]
func (h *FileHandler) GetImageURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.files.PresignObject(r.Context(), r.PathValue("name"))
	if err != nil {
		utils.ErrorResponse(w, r, h.log, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, URLResponse{URL: url})
}
