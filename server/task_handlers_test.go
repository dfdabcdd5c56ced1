package server_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, f *fixture, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode(t, rec)["accessToken"].(string)
}

func createTask(t *testing.T, f *fixture, accessToken, title string) map[string]any {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/tasks", map[string]string{"title": title}, withBearer(accessToken))
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode(t, rec)
}

func TestTasksRequireAuth(t *testing.T) {
	f := newFixture(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks/some-id"},
		{http.MethodPatch, "/tasks/some-id"},
		{http.MethodPatch, "/tasks/some-id/toggle"},
		{http.MethodDelete, "/tasks/some-id"},
	} {
		rec := f.do(t, route.method, route.path, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestTaskCrud(t *testing.T) {
	f := newFixture(t)
	access := registerUser(t, f, "alice@example.com")

	created := createTask(t, f, access, "Buy milk")
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Buy milk", created["title"])
	assert.Equal(t, false, created["completed"])
	assert.NotContains(t, created, "userId")

	rec := f.do(t, http.MethodGet, "/tasks/"+id, nil, withBearer(access))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPatch, "/tasks/"+id, map[string]any{"title": "Buy oat milk"}, withBearer(access))
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "Buy oat milk", updated["title"])
	assert.Equal(t, false, updated["completed"], "partial update must not touch completed")

	rec = f.do(t, http.MethodPatch, "/tasks/"+id+"/toggle", nil, withBearer(access))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["completed"])

	rec = f.do(t, http.MethodDelete, "/tasks/"+id, nil, withBearer(access))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/tasks/"+id, nil, withBearer(access))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decode(t, rec)["error"])
}

func TestTaskCreateValidation(t *testing.T) {
	f := newFixture(t)
	access := registerUser(t, f, "alice@example.com")

	rec := f.do(t, http.MethodPost, "/tasks", map[string]string{"title": "  "}, withBearer(access))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode(t, rec)["error"].(map[string]any)
	assert.Contains(t, fields, "title")
}

func TestTasksAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	alice := registerUser(t, f, "alice@example.com")
	bob := registerUser(t, f, "bob@example.com")

	created := createTask(t, f, alice, "Alice's secret task")
	id := created["id"].(string)

	// Bob cannot see, modify, or delete Alice's task.
	rec := f.do(t, http.MethodGet, "/tasks/"+id, nil, withBearer(bob))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/tasks/"+id, nil, withBearer(bob))
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Bob's list is empty.
	rec = f.do(t, http.MethodGet, "/tasks", nil, withBearer(bob))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Empty(t, body["tasks"])
}

func TestTaskListPagination(t *testing.T) {
	f := newFixture(t)
	access := registerUser(t, f, "alice@example.com")

	for i := 1; i <= 12; i++ {
		created := createTask(t, f, access, fmt.Sprintf("Task %02d", i))
		if i%3 == 0 {
			rec := f.do(t, http.MethodPatch, "/tasks/"+created["id"].(string)+"/toggle", nil, withBearer(access))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	}

	t.Run("defaults", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks", nil, withBearer(access))
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Len(t, body["tasks"], 10)
		pagination := body["pagination"].(map[string]any)
		assert.EqualValues(t, 12, pagination["total"])
		assert.EqualValues(t, 2, pagination["totalPages"])
	})

	t.Run("completed filter", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks?status=completed", nil, withBearer(access))
		require.Equal(t, http.StatusOK, rec.Code)
		pagination := decode(t, rec)["pagination"].(map[string]any)
		assert.EqualValues(t, 4, pagination["total"])
	})

	t.Run("search", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks?search=task+01", nil, withBearer(access))
		require.Equal(t, http.StatusOK, rec.Code)
		pagination := decode(t, rec)["pagination"].(map[string]any)
		assert.EqualValues(t, 1, pagination["total"])
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/tasks?limit=1000", nil, withBearer(access))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed pagination values are rejected", func(t *testing.T) {
		for _, query := range []string{"page=abc", "limit=abc", "page=0", "limit=0", "page=-1"} {
			rec := f.do(t, http.MethodGet, "/tasks?"+query, nil, withBearer(access))
			require.Equal(t, http.StatusBadRequest, rec.Code, query)
			fields := decode(t, rec)["error"].(map[string]any)
			assert.Contains(t, fields, "query", query)
		}
	})
}
