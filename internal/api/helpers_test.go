package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/bodytrack/internal/api"
	"alcyxob/bodytrack/internal/app"
	"alcyxob/bodytrack/internal/catalog"
	"alcyxob/bodytrack/internal/config"
	"alcyxob/bodytrack/internal/repository/memory"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret123"

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	auth   service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	svc := app.NewServices(app.MemoryRepositories(store), catalog.Default(), nil, config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})

	router := gin.New()
	api.SetupRoutes(router, svc)
	return &testServer{router: router, store: store, auth: svc.Auth}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) login(t *testing.T, email string) api.LoginResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{Email: email, Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[api.LoginResponse](t, w)
}

// registerClient returns a token and the client profile id.
func (s *testServer) registerClient(t *testing.T, email string) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register/client", "", api.RegisterClientRequest{
		Email: email, Password: testPassword, Names: "Lucia", LastNames: "Rojas",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := s.login(t, email)
	require.NotNil(t, resp.Client)
	return resp.Token, resp.Client.ID.Hex()
}

func (s *testServer) registerTrainer(t *testing.T, email string) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register/trainer", "", api.RegisterTrainerRequest{
		Email: email, Password: testPassword, Names: "Marco", Specialty: "Strength",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := s.login(t, email)
	require.NotNil(t, resp.Trainer)
	return resp.Token, resp.Trainer.ID.Hex()
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	_, err := s.auth.CreateAdmin(context.Background(), "admin@bodytrack.test", testPassword)
	require.NoError(t, err)
	return s.login(t, "admin@bodytrack.test").Token
}

func (s *testServer) exercise(t *testing.T, token, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/exercises", token, api.ExerciseRequest{Name: name, MuscleGroup: "Legs"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["id"].(string)
}

func (s *testServer) routine(t *testing.T, token string, generic bool, exerciseID string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/routines", token, api.CreateRoutineRequest{
		Name:      "Full body",
		IsGeneric: generic,
		Exercises: []api.RoutineExerciseRequest{{ExerciseID: exerciseID, Day: 1, Sets: 3, Reps: "10"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["id"].(string)
}
