package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandeepkv93/tcheck/internal/board"
	"github.com/sandeepkv93/tcheck/internal/model"
	"github.com/sandeepkv93/tcheck/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (http.Handler, *board.Board) {
	t.Helper()
	b, err := board.New(board.Options{Repo: storage.NewRepository(storage.NewMemoryStore())})
	require.NoError(t, err)
	require.NoError(t, b.Load(context.Background()))
	return New(b, nil).Handler(), b
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	h, _ := setupTestServer(t)
	resp := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestCreateAndListTasks(t *testing.T) {
	h, b := setupTestServer(t)

	resp := do(t, h, http.MethodPost, "/tasks", `{"text":"  ship it  "}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decode[model.Task](t, resp)
	assert.Equal(t, "ship it", created.Text)
	assert.Equal(t, model.DefaultTabID, created.TabID)
	assert.False(t, created.Completed)

	resp = do(t, h, http.MethodGet, "/tasks?tab="+model.DefaultTabID, "")
	require.Equal(t, http.StatusOK, resp.Code)
	tasks := decode[[]model.Task](t, resp)
	require.Len(t, tasks, 1)
	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Len(t, b.Tasks(), 1)
}

func TestCreateTaskValidation(t *testing.T) {
	h, b := setupTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "bad json", body: "{invalid", code: http.StatusBadRequest},
		{name: "empty text", body: `{"text":""}`, code: http.StatusBadRequest},
		{name: "blank text", body: `{"text":"   "}`, code: http.StatusBadRequest},
		{name: "unknown tab", body: `{"text":"x","tabId":"nope"}`, code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, h, http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
	assert.Empty(t, b.Tasks())
}

func TestTaskLifecycle(t *testing.T) {
	h, b := setupTestServer(t)
	task, err := b.AddTask(context.Background(), "draft", "")
	require.NoError(t, err)
	path := "/tasks/" + task.ID

	resp := do(t, h, http.MethodPatch, path, `{"text":"final"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "final", decode[model.Task](t, resp).Text)

	resp = do(t, h, http.MethodPost, path+"/toggle", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[model.Task](t, resp).Completed)

	resp = do(t, h, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, b.Tasks())

	resp = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = do(t, h, http.MethodPost, path+"/toggle", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPriorityRequiresPremium(t *testing.T) {
	h, b := setupTestServer(t)
	task, err := b.AddTask(context.Background(), "urgent", "")
	require.NoError(t, err)
	path := "/tasks/" + task.ID + "/priority"

	resp := do(t, h, http.MethodPut, path, `{"priority":"p0"}`)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = do(t, h, http.MethodPost, "/premium/upgrade", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[settingsResponse](t, resp).Premium)

	resp = do(t, h, http.MethodPut, path, `{"priority":"p9"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = do(t, h, http.MethodPut, path, `{"priority":"p0"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.PriorityP0, decode[model.Task](t, resp).Priority)

	resp = do(t, h, http.MethodPut, "/tasks/missing/priority", `{"priority":"p1"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTabs(t *testing.T) {
	h, b := setupTestServer(t)

	resp := do(t, h, http.MethodDelete, "/tabs/"+model.DefaultTabID, "")
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = do(t, h, http.MethodPost, "/tabs", `{"title":"Work"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	work := decode[model.Tab](t, resp)
	assert.Equal(t, "Work", work.Title)

	_, err := b.AddTask(context.Background(), "report", work.ID)
	require.NoError(t, err)

	resp = do(t, h, http.MethodPatch, "/tabs/"+work.ID, `{"title":" "}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	resp = do(t, h, http.MethodPatch, "/tabs/"+work.ID, `{"title":"Office"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Office", decode[model.Tab](t, resp).Title)

	resp = do(t, h, http.MethodPost, "/tabs/"+model.DefaultTabID+"/select", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, model.DefaultTabID, b.ActiveTab())

	resp = do(t, h, http.MethodDelete, "/tabs/"+work.ID, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, b.TasksForTab(model.DefaultTabID), 1)

	resp = do(t, h, http.MethodGet, "/tabs", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var listing struct {
		Tabs   []model.Tab `json:"tabs"`
		Active string      `json:"active"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, model.DefaultTabs(), listing.Tabs)
	assert.Equal(t, model.DefaultTabID, listing.Active)

	resp = do(t, h, http.MethodPatch, "/tabs/gone", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestStats(t *testing.T) {
	h, b := setupTestServer(t)
	ctx := context.Background()

	resp := do(t, h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, statsResponse{TabID: model.DefaultTabID, Percentage: 100}, decode[statsResponse](t, resp))

	var first model.Task
	for i, text := range []string{"a", "b", "c"} {
		task, err := b.AddTask(ctx, text, "")
		require.NoError(t, err)
		if i == 0 {
			first = task
		}
	}
	_, err := b.ToggleTask(ctx, first.ID)
	require.NoError(t, err)

	resp = do(t, h, http.MethodGet, "/stats?tab="+model.DefaultTabID, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, statsResponse{TabID: model.DefaultTabID, Total: 3, Completed: 1, Percentage: 33}, decode[statsResponse](t, resp))

	resp = do(t, h, http.MethodGet, "/stats?tab=nope", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestThemeSettings(t *testing.T) {
	h, b := setupTestServer(t)

	resp := do(t, h, http.MethodGet, "/settings/theme", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"theme":"matrix"}`, resp.Body.String())

	resp = do(t, h, http.MethodPut, "/settings/theme", `{"theme":"nord"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "nord", b.Theme())

	resp = do(t, h, http.MethodPut, "/settings/theme", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "nord", b.Theme())

	resp = do(t, h, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, resp.Code)
	settings := decode[settingsResponse](t, resp)
	assert.Equal(t, "nord", settings.Theme)
	assert.False(t, settings.Premium)
	assert.Equal(t, settings.Applied, settings.Persisted)
	assert.True(t, settings.Durable)
	assert.Empty(t, settings.Dirty)
	assert.Empty(t, settings.LastError)
}
