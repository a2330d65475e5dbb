package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"grokimg/internal/domain"
	"grokimg/internal/service"
)

// ImageHandler handles Grok upload and local image endpoints.
type ImageHandler struct {
	imageService service.ImageService
	maxBytes     int64
}

// NewImageHandler creates a new ImageHandler. maxBytes bounds multipart
// uploads read into memory; zero or less disables the bound.
func NewImageHandler(imageService service.ImageService, maxBytes int64) *ImageHandler {
	return &ImageHandler{imageService: imageService, maxBytes: maxBytes}
}

// Upload handles POST /api/v1/images/upload
// @Summary Upload an image to Grok
// @Description Resolve an image reference (local upload path, URL, data URI, or raw base64) and upload it to Grok
// @Tags images
// @Accept json
// @Produce json
// @Param body body UploadImageRequest true "Image reference and session cookie"
// @Success 200 {object} Response{data=domain.UploadResult} "Image uploaded"
// @Failure 400 {object} ErrorResponseBody "Missing image or cookie"
// @Failure 404 {object} ErrorResponseBody "Local upload missing or expired"
// @Failure 502 {object} ErrorResponseBody "Download or upstream upload failed"
// @Router /images/upload [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		HandleError(c, domain.ErrEmptyImage)
		return
	}
	if strings.TrimSpace(req.Cookie) == "" {
		HandleError(c, domain.ErrMissingCookie)
		return
	}

	result, err := h.imageService.Upload(c.Request.Context(), service.UploadImageInput{
		Image:  req.Image,
		Cookie: req.Cookie,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Store handles POST /api/v1/images
// @Summary Store an image locally
// @Description Store image bytes in the local cache and return a path usable as an upload reference
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image to store (JPG, PNG, GIF, or WEBP)"
// @Success 201 {object} Response{data=domain.LocalImage} "Image stored"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "Image too large"
// @Failure 503 {object} ErrorResponseBody "Cache disabled"
// @Router /images [post]
func (h *ImageHandler) Store(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	var r io.Reader = file
	if h.maxBytes > 0 {
		if header.Size > h.maxBytes {
			HandleError(c, domain.ErrImageTooLarge)
			return
		}
		r = io.LimitReader(file, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return
	}

	img, err := h.imageService.StoreLocal(c.Request.Context(), service.StoreImageInput{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, img)
}

// Serve handles GET /images/:name
// @Summary Serve a stored image
// @Tags images
// @Produce image/jpeg,image/png,image/gif,image/webp
// @Param name path string true "Stored image name (upload-<id>.<ext>)"
// @Success 200 {file} binary "Image bytes"
// @Failure 404 {object} ErrorResponseBody "Image not found or expired"
// @Router /images/{name} [get]
func (h *ImageHandler) Serve(c *gin.Context) {
	entry, err := h.imageService.GetLocal(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, entry.ContentType, entry.Value)
}
