package conversion

import (
	"net/http"
	"strings"
	"time"

	conversiondomain "convert-files-go/internal/domain/conversion"
)

type createConvertFileRequest struct {
	Title       string  `json:"title"`
	Separator   *string `json:"separator"`
	Extension   string  `json:"extension"`
	NotifyEmail *string `json:"notify_email"`
}

type updateConvertFileRequest struct {
	Title       *string `json:"title"`
	Separator   *string `json:"separator"`
	Extension   *string `json:"extension"`
	NotifyEmail *string `json:"notify_email"`
}

type previewRequest struct {
	Values map[string]string `json:"values"`
}

type convertFileResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Separator   string    `json:"separator"`
	Extension   string    `json:"extension"`
	NotifyEmail *string   `json:"notify_email"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type convertFileListResponse struct {
	Items []convertFileResponse `json:"items"`
	Total int64                 `json:"total"`
}

type previewResponse struct {
	FileName string `json:"file_name"`
}

func (h *Handlers) ListConvertFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}
	includeDeleted, err := parseBoolParam(query.Get("include_deleted"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid include_deleted")
		return
	}

	files, total, err := h.Conversion.ListConvertFiles(r.Context(), conversiondomain.ListFilter{
		Query:          strings.TrimSpace(query.Get("q")),
		IncludeDeleted: includeDeleted,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		h.log.InternalError("convert_files.list: list convert files failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]convertFileResponse, 0, len(files))
	for _, file := range files {
		items = append(items, toConvertFileResponse(file))
	}
	writeJSON(w, http.StatusOK, convertFileListResponse{Items: items, Total: total})
}

func (h *Handlers) CreateConvertFile(w http.ResponseWriter, r *http.Request) {
	var req createConvertFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	file, err := h.Conversion.CreateConvertFile(r.Context(), conversiondomain.CreateConvertFileInput{
		Title:       req.Title,
		Separator:   req.Separator,
		Extension:   req.Extension,
		NotifyEmail: req.NotifyEmail,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("convert_files.create: rejected", err)
			return
		}
		h.log.InternalError("convert_files.create: create convert file failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toConvertFileResponse(*file))
}

func (h *Handlers) GetConvertFile(w http.ResponseWriter, r *http.Request) {
	id, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}

	file, err := h.Conversion.GetConvertFile(r.Context(), id)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("convert_files.get: rejected", err, "convert_file_id", id)
			return
		}
		h.log.InternalError("convert_files.get: get convert file failed", err, "convert_file_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toConvertFileResponse(*file))
}

func (h *Handlers) UpdateConvertFile(w http.ResponseWriter, r *http.Request) {
	id, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}
	var req updateConvertFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	file, err := h.Conversion.UpdateConvertFile(r.Context(), conversiondomain.UpdateConvertFileInput{
		ID:          id,
		Title:       req.Title,
		Separator:   req.Separator,
		Extension:   req.Extension,
		NotifyEmail: req.NotifyEmail,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("convert_files.update: rejected", err, "convert_file_id", id)
			return
		}
		h.log.InternalError("convert_files.update: update convert file failed", err, "convert_file_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toConvertFileResponse(*file))
}

func (h *Handlers) PreviewFileName(w http.ResponseWriter, r *http.Request) {
	id, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	name, err := h.Conversion.PreviewFileName(r.Context(), id, req.Values)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("convert_files.preview: rejected", err, "convert_file_id", id)
			return
		}
		h.log.InternalError("convert_files.preview: build file name failed", err, "convert_file_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{FileName: name})
}

func toConvertFileResponse(file conversiondomain.ConvertFile) convertFileResponse {
	return convertFileResponse{
		ID:          file.ID,
		Title:       file.Title,
		Separator:   file.Separator,
		Extension:   file.Extension,
		NotifyEmail: file.NotifyEmail,
		IsDeleted:   file.IsDeleted,
		CreatedAt:   file.CreatedAt,
		UpdatedAt:   file.UpdatedAt,
	}
}
