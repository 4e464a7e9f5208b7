package conversion

import (
	"net/http"
	"time"

	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/internal/domain/priority"
)

type createPropertyRequest struct {
	Title     string `json:"title"`
	FieldName string `json:"field_name"`
	FieldType string `json:"field_type"`
	Format    string `json:"format"`
	Prefix    string `json:"prefix"`
	Suffix    string `json:"suffix"`
}

type updatePropertyRequest struct {
	Title     *string `json:"title"`
	FieldName *string `json:"field_name"`
	FieldType *string `json:"field_type"`
	Format    *string `json:"format"`
	Prefix    *string `json:"prefix"`
	Suffix    *string `json:"suffix"`
}

type propertyResponse struct {
	ID             int64     `json:"id"`
	ConvertFilesID int64     `json:"convert_files_id"`
	Title          string    `json:"title"`
	FieldName      string    `json:"field_name"`
	FieldType      string    `json:"field_type"`
	Format         string    `json:"format"`
	Prefix         string    `json:"prefix"`
	Suffix         string    `json:"suffix"`
	Priority       int       `json:"priority"`
	IsDeleted      bool      `json:"is_deleted"`
	CanMoveUp      bool      `json:"can_move_up"`
	CanMoveDown    bool      `json:"can_move_down"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type propertyListResponse struct {
	Items []propertyResponse `json:"items"`
	Total int                `json:"total"`
}

type updatesResponse struct {
	Updates []priority.Update `json:"updates"`
}

type priorityReportResponse struct {
	ConvertFileID int64                `json:"convert_file_id"`
	IsValid       bool                 `json:"is_valid"`
	Duplicates    []priority.Duplicate `json:"duplicates"`
	Used          []int                `json:"used"`
	NextAvailable int                  `json:"next_available"`
	NextPriority  int                  `json:"next_priority"`
	ActiveCount   int                  `json:"active_count"`
	DeletedCount  int                  `json:"deleted_count"`
}

func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	convertFileID, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}
	includeDeleted, err := parseBoolParam(r.URL.Query().Get("include_deleted"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid include_deleted")
		return
	}

	views, err := h.Conversion.ListProperties(r.Context(), convertFileID, includeDeleted)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.list: rejected", err, "convert_file_id", convertFileID)
			return
		}
		h.log.InternalError("properties.list: list properties failed", err, "convert_file_id", convertFileID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	items := make([]propertyResponse, 0, len(views))
	for _, view := range views {
		items = append(items, toPropertyResponse(view.Property, view.CanMoveUp, view.CanMoveDown))
	}
	writeJSON(w, http.StatusOK, propertyListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	convertFileID, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}
	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	property, err := h.Conversion.CreateProperty(r.Context(), conversiondomain.CreatePropertyInput{
		ConvertFileID: convertFileID,
		Title:         req.Title,
		FieldName:     req.FieldName,
		FieldType:     conversiondomain.FieldType(req.FieldType),
		Format:        req.Format,
		Prefix:        req.Prefix,
		Suffix:        req.Suffix,
	})
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.create: rejected", err, "convert_file_id", convertFileID)
			return
		}
		h.log.InternalError("properties.create: create property failed", err, "convert_file_id", convertFileID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toPropertyResponse(*property, false, false))
}

func (h *Handlers) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	convertFileID, propertyID, ok := propertyPath(w, r)
	if !ok {
		return
	}
	var req updatePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := conversiondomain.UpdatePropertyInput{
		ID:            propertyID,
		ConvertFileID: convertFileID,
		Title:         req.Title,
		FieldName:     req.FieldName,
		Format:        req.Format,
		Prefix:        req.Prefix,
		Suffix:        req.Suffix,
	}
	if req.FieldType != nil {
		fieldType := conversiondomain.FieldType(*req.FieldType)
		input.FieldType = &fieldType
	}

	property, err := h.Conversion.UpdateProperty(r.Context(), input)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.update: rejected", err, "convert_file_id", convertFileID, "property_id", propertyID)
			return
		}
		h.log.InternalError("properties.update: update property failed", err, "convert_file_id", convertFileID, "property_id", propertyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toPropertyResponse(*property, false, false))
}

func (h *Handlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	convertFileID, propertyID, ok := propertyPath(w, r)
	if !ok {
		return
	}

	updates, err := h.Conversion.DeleteProperty(r.Context(), convertFileID, propertyID)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.delete: rejected", err, "convert_file_id", convertFileID, "property_id", propertyID)
			return
		}
		h.log.InternalError("properties.delete: delete property failed", err, "convert_file_id", convertFileID, "property_id", propertyID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, updatesResponse{Updates: nonNil(updates)})
}

func (h *Handlers) MovePropertyUp(w http.ResponseWriter, r *http.Request) {
	h.moveProperty(w, r, conversiondomain.DirectionUp)
}

func (h *Handlers) MovePropertyDown(w http.ResponseWriter, r *http.Request) {
	h.moveProperty(w, r, conversiondomain.DirectionDown)
}

func (h *Handlers) moveProperty(w http.ResponseWriter, r *http.Request, direction conversiondomain.Direction) {
	convertFileID, propertyID, ok := propertyPath(w, r)
	if !ok {
		return
	}

	updates, err := h.Conversion.MoveProperty(r.Context(), convertFileID, propertyID, direction)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.move: rejected", err, "convert_file_id", convertFileID, "property_id", propertyID, "direction", direction)
			return
		}
		h.log.InternalError("properties.move: move property failed", err, "convert_file_id", convertFileID, "property_id", propertyID, "direction", direction)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, updatesResponse{Updates: nonNil(updates)})
}

func (h *Handlers) NormalizeProperties(w http.ResponseWriter, r *http.Request) {
	convertFileID, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}

	updates, err := h.Conversion.NormalizeProperties(r.Context(), convertFileID)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.normalize: rejected", err, "convert_file_id", convertFileID)
			return
		}
		h.log.InternalError("properties.normalize: normalize failed", err, "convert_file_id", convertFileID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, updatesResponse{Updates: nonNil(updates)})
}

func (h *Handlers) ValidatePriorities(w http.ResponseWriter, r *http.Request) {
	convertFileID, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return
	}

	report, err := h.Conversion.ValidatePriorities(r.Context(), convertFileID)
	if err != nil {
		if writeDomainError(w, err) {
			h.log.BusinessError("properties.validation: rejected", err, "convert_file_id", convertFileID)
			return
		}
		h.log.InternalError("properties.validation: validate priorities failed", err, "convert_file_id", convertFileID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	duplicates := report.Duplicates
	if duplicates == nil {
		duplicates = []priority.Duplicate{}
	}
	used := report.Used
	if used == nil {
		used = []int{}
	}
	writeJSON(w, http.StatusOK, priorityReportResponse{
		ConvertFileID: report.ConvertFileID,
		IsValid:       report.IsValid,
		Duplicates:    duplicates,
		Used:          used,
		NextAvailable: report.NextAvailable,
		NextPriority:  report.NextPriority,
		ActiveCount:   report.ActiveCount,
		DeletedCount:  report.DeletedCount,
	})
}

func propertyPath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	convertFileID, err := convertFileIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid convert_file_id")
		return 0, 0, false
	}
	propertyID, err := propertyIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid property_id")
		return 0, 0, false
	}
	return convertFileID, propertyID, true
}

func nonNil(updates []priority.Update) []priority.Update {
	if updates == nil {
		return []priority.Update{}
	}
	return updates
}

func toPropertyResponse(property conversiondomain.ConvertProperty, canMoveUp, canMoveDown bool) propertyResponse {
	return propertyResponse{
		ID:             property.ID,
		ConvertFilesID: property.ConvertFilesID,
		Title:          property.Title,
		FieldName:      property.FieldName,
		FieldType:      string(property.FieldType),
		Format:         property.Format,
		Prefix:         property.Prefix,
		Suffix:         property.Suffix,
		Priority:       property.Priority,
		IsDeleted:      property.IsDeleted,
		CanMoveUp:      canMoveUp,
		CanMoveDown:    canMoveDown,
		CreatedAt:      property.CreatedAt,
		UpdatedAt:      property.UpdatedAt,
	}
}
