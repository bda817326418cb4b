package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
)

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/users/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"Evan","email":"evan@example.com","department":"Engineering","role":"EMPLOYEE","manager_id":9,"employment_start_date":"2024-03-15T00:00:00Z"}`))
	})
	mux.HandleFunc("/api/users/1/manager", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":9,"name":"Maya","email":"maya@example.com","role":"MANAGER"}`))
	})
	mux.HandleFunc("/api/users/2/manager", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Query().Get("ids") != "":
			assert.Equal(t, "1,9", r.URL.Query().Get("ids"))
			w.Write([]byte(`[{"id":1,"name":"Evan"},{"id":9,"name":"Maya"}]`))
		case r.URL.Query().Get("manager_id") != "":
			w.Write([]byte(`[{"id":1,"name":"Evan","manager_id":9}]`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_GetUser(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	u, err := client.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "Evan", u.Name)
	assert.Equal(t, "Engineering", u.Department)
	require.NotNil(t, u.ManagerID)
	assert.Equal(t, int64(9), *u.ManagerID)
	require.NotNil(t, u.EmploymentStartDate)
	assert.Equal(t, 2024, u.EmploymentStartDate.Year())
}

func TestClient_GetUserNotFound(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	_, err := client.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestClient_GetManager(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	manager, err := client.GetManager(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), manager.ID)
	assert.True(t, manager.CanReview())
}

func TestClient_GetManagerNotFound(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	_, err := client.GetManager(context.Background(), 2)
	assert.ErrorIs(t, err, user.ErrManagerNotFound)
}

func TestClient_GetUsersByIDs(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	users, err := client.GetUsersByIDs(context.Background(), []int64{1, 9})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Evan", users[1].Name)
	assert.Equal(t, "Maya", users[9].Name)
}

func TestClient_GetUsersByIDsEmpty(t *testing.T) {
	client := NewClient("http://identity.invalid")

	users, err := client.GetUsersByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClient_GetDirectReports(t *testing.T) {
	server := newTestServer(t)
	client := NewClient(server.URL)

	reports, err := client.GetDirectReports(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(1), reports[0].ID)
}

func TestClient_Unconfigured(t *testing.T) {
	client := NewClient("")

	_, err := client.GetUser(context.Background(), 1)
	assert.Error(t, err)
}
