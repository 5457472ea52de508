package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"vacationManagement/internal/auth"
	"vacationManagement/internal/config"
	"vacationManagement/internal/handlers"
	"vacationManagement/internal/metrics"
	"vacationManagement/internal/testutil"
	"vacationManagement/internal/users"
	"vacationManagement/internal/vacation"
	"vacationManagement/models"
	"vacationManagement/repository"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	users  map[string]*models.User
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.HTTP.AllowedOrigins = nil
	if mutate != nil {
		mutate(cfg)
	}

	d := testutil.OpenInMemoryDB(t, t.Name())
	rdb, _ := testutil.NewRedis(t)
	userRepo := repository.NewUserRepository(d)
	vacRepo := repository.NewVacationRepository(d)
	m := metrics.New()

	sessions := auth.NewSessions(rdb, userRepo, cfg.Auth.JWTSecret, time.Hour)
	userSvc := users.NewService(userRepo).WithBcryptCost(bcrypt.MinCost)
	vacSvc := vacation.NewService(vacRepo, vacation.Options{
		StrictTransitions: cfg.Vacations.StrictTransitions,
		Recorder:          m,
	})

	router := gin.New()
	Setup(router, Handlers{
		Auth:     handlers.NewAuthHandler(userSvc, sessions, handlers.NewCookieHelper(cfg.Auth.Cookie)),
		Vacation: handlers.NewVacationHandler(vacSvc),
		User:     handlers.NewUserHandler(userSvc),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": d.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}, sessions, cfg, m)

	return &testServer{
		t:      t,
		router: router,
		users: map[string]*models.User{
			"alice": testutil.CreateUser(t, d, "Alice Manager", "alice@example.com", models.RoleManager, 1000001),
			"bob":   testutil.CreateUser(t, d, "Bob Employee", "bob@example.com", models.RoleEmployee, 1000002),
			"carol": testutil.CreateUser(t, d, "Carol Employee", "carol@example.com", models.RoleEmployee, 1000003),
		},
	}
}

// do sends a JSON request with an optional bearer token and decodes the response into out.
func (s *testServer) do(method, path, token string, body any, out any) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "hr_session", Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	return s.loginWith(email, "password")
}

func (s *testServer) loginWith(email, password string) string {
	s.t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "hr_session" && c.Value != "" {
			return c.Value
		}
	}
	s.t.Fatalf("login %s: no session cookie", email)
	return ""
}

type message struct {
	Message string `json:"message"`
}

func TestVacationLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.login("alice@example.com")
	bob := s.login("bob@example.com")
	carol := s.login("carol@example.com")

	var created models.Vacation
	code := s.do(http.MethodPost, "/api/vacations", bob, map[string]string{
		"start_date": "2025-07-01", "end_date": "2025-07-10", "reason": "Sea",
	}, &created)
	if code != http.StatusCreated || created.Status != models.VacationStatusPending || created.UserID != s.users["bob"].ID {
		t.Fatalf("create: %d %+v", code, created)
	}

	var carolOwn []models.Vacation
	if code := s.do(http.MethodGet, "/api/vacations", carol, nil, &carolOwn); code != http.StatusOK || len(carolOwn) != 0 {
		t.Fatalf("carol sees %d vacations (%d)", len(carolOwn), code)
	}

	var msg message
	approvePath := "/api/vacations/" + strconv.FormatInt(created.ID, 10) + "/approve"
	if code := s.do(http.MethodPut, approvePath, bob, nil, &msg); code != http.StatusForbidden {
		t.Fatalf("employee approve: %d %+v", code, msg)
	}

	var approved models.Vacation
	if code := s.do(http.MethodPut, approvePath, alice, nil, &approved); code != http.StatusOK || approved.Status != models.VacationStatusApproved {
		t.Fatalf("manager approve: %d %+v", code, approved)
	}

	var bobOwn []models.Vacation
	s.do(http.MethodGet, "/api/vacations", bob, nil, &bobOwn)
	if len(bobOwn) != 1 || bobOwn[0].Status != models.VacationStatusApproved {
		t.Fatalf("bob's vacations: %+v", bobOwn)
	}

	var all []models.Vacation
	if code := s.do(http.MethodGet, "/api/vacations/pending", alice, nil, &all); code != http.StatusOK || len(all) != 1 {
		t.Fatalf("manager list: %d %+v", code, all)
	}
	if code := s.do(http.MethodGet, "/api/vacations/pending?status=pending", alice, nil, &all); code != http.StatusOK || len(all) != 0 {
		t.Fatalf("pending filter: %d %+v", code, all)
	}
	if code := s.do(http.MethodGet, "/api/vacations/pending", bob, nil, &msg); code != http.StatusForbidden {
		t.Fatalf("employee list all: %d", code)
	}

	// Default behaviour overwrites the status of a reviewed vacation.
	declinePath := "/api/vacations/" + strconv.FormatInt(created.ID, 10) + "/decline"
	var declined models.Vacation
	if code := s.do(http.MethodPut, declinePath, alice, nil, &declined); code != http.StatusOK || declined.Status != models.VacationStatusDeclined {
		t.Fatalf("re-decline: %d %+v", code, declined)
	}
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.login("alice@example.com")
	bob := s.login("bob@example.com")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantMsg    string
	}{
		{"me anonymous", http.MethodGet, "/api/me", "", nil, http.StatusUnauthorized, "Unauthenticated"},
		{"own list anonymous", http.MethodGet, "/api/vacations", "", nil, http.StatusUnauthorized, "Unauthorized"},
		{"create anonymous without dates", http.MethodPost, "/api/vacations", "", map[string]string{}, http.StatusUnauthorized, "Unauthorized"},
		{"create without dates", http.MethodPost, "/api/vacations", bob, map[string]string{"start_date": "2025-01-01"}, http.StatusUnprocessableEntity, "Start and end dates required"},
		{"bad id before auth", http.MethodPut, "/api/vacations/abc/approve", "", nil, http.StatusBadRequest, "Invalid or missing id"},
		{"approve anonymous", http.MethodPut, "/api/vacations/1/approve", "", nil, http.StatusUnauthorized, "Unauthorized"},
		{"approve missing", http.MethodPut, "/api/vacations/999/approve", alice, nil, http.StatusNotFound, "Vacation not found"},
		{"unknown status filter", http.MethodGet, "/api/vacations/pending?status=cancelled", alice, nil, http.StatusBadRequest, "Invalid status filter"},
		{"users anonymous", http.MethodGet, "/api/users", "", nil, http.StatusUnauthorized, "Unauthorized"},
		{"users as employee", http.MethodGet, "/api/users", bob, nil, http.StatusForbidden, "Forbidden - manager access required"},
		{"user missing", http.MethodGet, "/api/users/999", alice, nil, http.StatusNotFound, "User not found"},
		{"login wrong password", http.MethodPost, "/api/login", "", map[string]string{"email": "alice@example.com", "password": "x"}, http.StatusUnprocessableEntity, "Invalid credentials"},
		{"forged token", http.MethodGet, "/api/me", "not-a-jwt", nil, http.StatusUnauthorized, "Unauthenticated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg message
			if code := s.do(tt.method, tt.path, tt.token, tt.body, &msg); code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.wantStatus, msg)
			}
			if msg.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", msg.Message, tt.wantMsg)
			}
		})
	}
}

func TestStrictTransitions(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Vacations.StrictTransitions = true })
	alice := s.login("alice@example.com")
	bob := s.login("bob@example.com")

	var v models.Vacation
	s.do(http.MethodPost, "/api/vacations", bob, map[string]string{"start_date": "2025-08-01", "end_date": "2025-08-07"}, &v)
	base := "/api/vacations/" + strconv.FormatInt(v.ID, 10)

	if code := s.do(http.MethodPut, base+"/decline", alice, nil, nil); code != http.StatusOK {
		t.Fatalf("first decline: %d", code)
	}
	var msg message
	if code := s.do(http.MethodPut, base+"/approve", alice, nil, &msg); code != http.StatusConflict {
		t.Fatalf("approve after decline: %d %+v", code, msg)
	}
}

func TestUserAdministration(t *testing.T) {
	s := newTestServer(t, nil)
	alice := s.login("alice@example.com")

	var created models.User
	code := s.do(http.MethodPost, "/api/users", alice, map[string]any{
		"name": "Dave", "email": "Dave@Example.com", "password": "pw", "role": "employee", "employee_code": "1234567",
	}, &created)
	if code != http.StatusCreated || created.EmployeeCode != 1234567 || created.Email != "dave@example.com" {
		t.Fatalf("create: %d %+v", code, created)
	}

	var byCode []models.User
	if code := s.do(http.MethodGet, "/api/users?employee_code=1234567", alice, nil, &byCode); code != http.StatusOK || len(byCode) != 1 || byCode[0] != created {
		t.Fatalf("lookup by code: %d %+v", code, byCode)
	}

	var msg message
	code = s.do(http.MethodPost, "/api/users", alice, map[string]any{
		"name": "Dup", "email": "dup@example.com", "password": "pw", "role": "employee", "employee_code": 1234567,
	}, &msg)
	if code != http.StatusBadRequest || msg.Message != "Employee code must be unique" {
		t.Fatalf("duplicate code: %d %+v", code, msg)
	}

	// Dave logs in with the password set by the manager, not the seed default.
	if code := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "dave@example.com", "password": "password"}, &msg); code != http.StatusUnprocessableEntity {
		t.Fatalf("login with wrong password: %d %+v", code, msg)
	}
	dave := s.loginWith("dave@example.com", "pw")
	var me models.User
	if code := s.do(http.MethodGet, "/api/me", dave, nil, &me); code != http.StatusOK || me.ID != created.ID {
		t.Fatalf("me: %d %+v", code, me)
	}

	path := "/api/users/" + strconv.FormatInt(created.ID, 10)
	var updated models.User
	if code := s.do(http.MethodPut, path, alice, map[string]any{"name": "David"}, &updated); code != http.StatusOK || updated.Name != "David" {
		t.Fatalf("update: %d %+v", code, updated)
	}
	if code := s.do(http.MethodDelete, path, alice, nil, &msg); code != http.StatusOK || msg.Message != "User deleted" {
		t.Fatalf("delete: %d %+v", code, msg)
	}

	// The deleted user's session no longer resolves.
	if code := s.do(http.MethodGet, "/api/me", dave, nil, &msg); code != http.StatusUnauthorized {
		t.Fatalf("me after delete: %d", code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	s := newTestServer(t, nil)
	bob := s.login("bob@example.com")

	var msg message
	if code := s.do(http.MethodPost, "/api/logout", bob, nil, &msg); code != http.StatusOK || msg.Message != "Logged out" {
		t.Fatalf("logout: %d %+v", code, msg)
	}
	if code := s.do(http.MethodGet, "/api/vacations", bob, nil, &msg); code != http.StatusUnauthorized {
		t.Fatalf("after logout: %d", code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	var health map[string]any
	if code := s.do(http.MethodGet, "/health", "", nil, &health); code != http.StatusOK || health["status"] != "healthy" {
		t.Fatalf("health: %d %v", code, health)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("http_requests_total")) {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestCSRFWhenOriginsConfigured(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) {
		cfg.HTTP.AllowedOrigins = []string{"http://localhost:5173"}
	})

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"email":"bob@example.com","password":"password"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://evil.com")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-site login: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"email":"bob@example.com","password":"password"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("same-site login: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("CORS headers missing: %v", w.Header())
	}
}
