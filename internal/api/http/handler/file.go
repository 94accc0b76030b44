package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/okorneva/cloudstore/internal/logger"
	"github.com/okorneva/cloudstore/internal/model"
)

const maxUploadMemory = 32 << 20

// FileService defines ownership-scoped file operations.
type FileService interface {
	Upload(ctx context.Context, token, hash string, payload io.Reader, size int64, filename string) error
	Delete(ctx context.Context, token, filename string) error
	Fetch(ctx context.Context, token, filename string) (model.File, error)
	Rename(ctx context.Context, token, filename, newName string) error
	List(ctx context.Context, token string, limit int) ([]model.FileInfo, error)
}

// Files handles the file and list endpoints. It only decodes requests and
// encodes responses; every check lives in the service.
type Files struct {
	files    FileService
	validate *validator.Validate
	logger   *logger.Logger
}

// NewFiles creates a new Files handler.
func NewFiles(files FileService, logger *logger.Logger) *Files {
	return &Files{
		files:    files,
		validate: validator.New(),
		logger:   logger,
	}
}

type renameRequest struct {
	Name string `json:"name" validate:"required"`
}

type listItem struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Upload stores a multipart payload under the filename query parameter. The
// hash and file parts are handed to the service as-is; absent parts arrive
// as zero values so the service's validation order decides the failure.
func (h *Files) Upload(w http.ResponseWriter, r *http.Request) {
	token, _ := model.TokenFromContext(r.Context())
	filename := r.URL.Query().Get("filename")

	var (
		hash    string
		payload io.Reader
		size    int64
	)
	if err := r.ParseMultipartForm(maxUploadMemory); err == nil {
		hash = r.FormValue("hash")
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			payload = file
			size = header.Size
		}
	}

	if err := h.files.Upload(r.Context(), token, hash, payload, size, filename); err != nil {
		h.logger.Error("File handler: upload failed",
			"filename", filename,
			"error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Fetch returns the file as a multipart body with hash and file parts.
func (h *Files) Fetch(w http.ResponseWriter, r *http.Request) {
	token, _ := model.TokenFromContext(r.Context())
	filename := r.URL.Query().Get("filename")

	file, err := h.files.Fetch(r.Context(), token, filename)
	if err != nil {
		h.logger.Error("File handler: fetch failed",
			"filename", filename,
			"error", err.Error())
		writeError(w, err)
		return
	}

	if err := writeMultipartFile(w, file); err != nil {
		h.logger.Error("File handler: failed to write multipart response",
			"filename", filename,
			"error", err.Error())
	}
}

// Delete removes the file named by the filename query parameter.
func (h *Files) Delete(w http.ResponseWriter, r *http.Request) {
	token, _ := model.TokenFromContext(r.Context())
	filename := r.URL.Query().Get("filename")

	if err := h.files.Delete(r.Context(), token, filename); err != nil {
		h.logger.Error("File handler: delete failed",
			"filename", filename,
			"error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Rename changes the file's name to the one in the JSON body.
func (h *Files) Rename(w http.ResponseWriter, r *http.Request) {
	token, _ := model.TokenFromContext(r.Context())
	filename := r.URL.Query().Get("filename")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewErrInvalidArgument("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, model.NewErrInvalidArgument(validationMessage(err)))
		return
	}

	if err := h.files.Rename(r.Context(), token, filename, req.Name); err != nil {
		h.logger.Error("File handler: rename failed",
			"filename", filename,
			"new_name", req.Name,
			"error", err.Error())
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// List returns up to limit entries of the caller's namespace as JSON.
func (h *Files) List(w http.ResponseWriter, r *http.Request) {
	token, _ := model.TokenFromContext(r.Context())

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, model.NewErrInvalidArgument("limit must be a number"))
		return
	}

	infos, err := h.files.List(r.Context(), token, limit)
	if err != nil {
		h.logger.Error("File handler: list failed",
			"limit", limit,
			"error", err.Error())
		writeError(w, err)
		return
	}

	items := make([]listItem, 0, len(infos))
	for _, info := range infos {
		items = append(items, listItem{Filename: info.Name, Size: info.Size})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

func writeMultipartFile(w http.ResponseWriter, file model.File) error {
	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type", mw.FormDataContentType())

	if err := mw.WriteField("hash", file.Hash); err != nil {
		return err
	}
	fw, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return err
	}
	if _, err := fw.Write(file.Content); err != nil {
		return err
	}
	return mw.Close()
}
