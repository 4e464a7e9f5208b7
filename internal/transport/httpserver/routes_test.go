package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"convert-files-go/internal/config"
	conversiondomain "convert-files-go/internal/domain/conversion"
	"convert-files-go/internal/repository/inmemory"
	"convert-files-go/internal/transport/httpserver/handler"
	"convert-files-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := inmemory.NewConversionRepository()
	service := conversiondomain.NewService(repo).WithCache(inmemory.NewInMemoryConvertFileCache(), time.Minute)
	cfg := config.Config{
		RequestTimeout:     5 * time.Second,
		APIToken:           testToken,
		CORSAllowedOrigins: []string{"http://localhost:4321"},
	}
	return NewRouter(cfg, handler.New(repo, service, logger.Nop()), logger.Nop())
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

type propertyItem struct {
	ID          int64  `json:"id"`
	FieldName   string `json:"field_name"`
	Priority    int    `json:"priority"`
	IsDeleted   bool   `json:"is_deleted"`
	CanMoveUp   bool   `json:"can_move_up"`
	CanMoveDown bool   `json:"can_move_down"`
}

type updateItem struct {
	ID       int64 `json:"id"`
	Priority int   `json:"priority"`
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConvertFilesRequireToken(t *testing.T) {
	router := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/convert-files", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPropertyPriorityFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/convert-files", map[string]interface{}{
		"title":     "Invoices",
		"separator": "-",
		"extension": "pdf",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var file struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &file)
	base := "/api/convert-files/" + jsonNumber(file.ID)

	for _, name := range []string{"Customer", "Number", "Year"} {
		rec = do(t, router, http.MethodPost, base+"/properties", map[string]string{
			"title":      name,
			"field_name": name,
			"field_type": "text",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	var list struct {
		Items []propertyItem `json:"items"`
	}
	decode(t, do(t, router, http.MethodGet, base+"/properties", nil), &list)
	require.Len(t, list.Items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{list.Items[0].Priority, list.Items[1].Priority, list.Items[2].Priority})
	assert.False(t, list.Items[0].CanMoveUp)
	assert.True(t, list.Items[0].CanMoveDown)
	assert.False(t, list.Items[2].CanMoveDown)

	first, last := list.Items[0].ID, list.Items[2].ID

	var moved struct {
		Updates []updateItem `json:"updates"`
	}
	rec = do(t, router, http.MethodPost, base+"/properties/"+jsonNumber(last)+"/move-up", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &moved)
	assert.Len(t, moved.Updates, 2)

	rec = do(t, router, http.MethodPost, base+"/properties/"+jsonNumber(first)+"/move-up", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updates":[]}`, rec.Body.String())

	rec = do(t, router, http.MethodDelete, base+"/properties/"+jsonNumber(first), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &moved)
	assert.Len(t, moved.Updates, 2)

	// the deleted property shares slot 1 with an active one and must stay put
	rec = do(t, router, http.MethodPost, base+"/properties/"+jsonNumber(first)+"/move-down", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "property_not_found")

	var report struct {
		IsValid    bool `json:"is_valid"`
		Duplicates []struct {
			Priority int     `json:"priority"`
			ItemIDs  []int64 `json:"item_ids"`
		} `json:"duplicates"`
		Used         []int `json:"used"`
		NextPriority int   `json:"next_priority"`
		ActiveCount  int   `json:"active_count"`
		DeletedCount int   `json:"deleted_count"`
	}
	rec = do(t, router, http.MethodGet, base+"/properties/validation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &report)
	// the deleted property keeps its stale slot, so it collides with the
	// compacted first property
	assert.False(t, report.IsValid)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, 1, report.Duplicates[0].Priority)
	assert.ElementsMatch(t, []int64{first, last}, report.Duplicates[0].ItemIDs)
	assert.Equal(t, []int{1, 1, 2}, report.Used)
	assert.Equal(t, 3, report.NextPriority)
	assert.Equal(t, 2, report.ActiveCount)
	assert.Equal(t, 1, report.DeletedCount)

	rec = do(t, router, http.MethodPost, base+"/preview", map[string]interface{}{
		"values": map[string]string{"Customer": "ignored", "Number": "7", "Year": "2024"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"file_name":"2024-7.pdf"}`, rec.Body.String())
}

func TestValidationErrorsCarryDetails(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/convert-files", map[string]string{"title": "", "separator": "/"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details []struct {
				Field string `json:"field"`
			} `json:"details"`
		} `json:"error"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "validation_failed", body.Error.Code)
	assert.Len(t, body.Error.Details, 2)
}

func TestNotFoundAndBadParams(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/convert-files/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "convert_file_not_found")

	rec = do(t, router, http.MethodGet, "/api/convert-files/abc/properties", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/convert-files", map[string]string{"unknown": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func jsonNumber(id int64) string {
	out, _ := json.Marshal(id)
	return string(out)
}
