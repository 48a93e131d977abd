package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pomflow/internal/db"
	"pomflow/internal/handler"
	"pomflow/internal/repository"
	"pomflow/internal/router"
	"pomflow/internal/service"
	"pomflow/internal/syncapi"
)

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestRegisterCreatesDefaults(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user1@example.com", "123456")

	status, body := requestJSON(t, engine, http.MethodGet, "/api/settings", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for settings, got %d: %s", status, body)
	}
	var settings syncapi.SettingsEnvelope
	decode(t, body, &settings)
	if settings.Settings.FocusMinutes != 25 || settings.Settings.LongBreakInterval != 4 {
		t.Fatalf("unexpected default settings: %+v", settings.Settings)
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/session", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for session, got %d: %s", status, body)
	}
	var session syncapi.SessionEnvelope
	decode(t, body, &session)
	if session.Session.Mode != "focus" || session.Session.TimeLeftSeconds != 1500 {
		t.Fatalf("unexpected default session: %+v", session.Session)
	}

	status, body = requestJSON(t, engine, http.MethodGet, "/api/auth/me", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for me, got %d: %s", status, body)
	}
}

func TestLoginAndDuplicateRegistration(t *testing.T) {
	engine := setupTestEngine(t)
	registerUser(t, engine, "User@Example.com", "123456")

	status, body := requestJSON(t, engine, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "user@example.com",
		"password": "123456",
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}
	assertErrorCode(t, body, "email_exists")

	status, body = requestJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", status)
	}

	status, body = requestJSON(t, engine, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "user@example.com",
		"password": "123456",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", status, body)
	}
	var resp syncapi.AuthResponse
	decode(t, body, &resp)
	if resp.Token == "" || resp.User.Email != "user@example.com" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestTasksReplaceUpsertDelete(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "tasks@example.com", "123456")

	replace := syncapi.TasksEnvelope{Tasks: []syncapi.TaskRow{
		{ID: "a", Title: "Write report", EstimatedPomodoros: 2},
		{ID: "b", Title: "Review PR", EstimatedPomodoros: 1},
		{ID: "c", Title: "Old", EstimatedPomodoros: 1, IsCompleted: true},
	}}
	status, body := requestJSON(t, engine, http.MethodPut, "/api/tasks", user.Token, replace)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on replace, got %d: %s", status, body)
	}

	// Replacing with a smaller set drops the missing task and reorders.
	replace.Tasks = []syncapi.TaskRow{replace.Tasks[1], replace.Tasks[0]}
	status, body = requestJSON(t, engine, http.MethodPut, "/api/tasks", user.Token, replace)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on second replace, got %d: %s", status, body)
	}
	tasks := listTasks(t, engine, user.Token)
	if len(tasks) != 2 || tasks[0].ID != "b" || tasks[1].ID != "a" {
		t.Fatalf("unexpected tasks after replace: %+v", tasks)
	}

	status, body = requestJSON(t, engine, http.MethodPut, "/api/tasks/a", user.Token, syncapi.TaskEnvelope{
		Task: syncapi.TaskRow{Title: "Write report v2", EstimatedPomodoros: 3, CompletedPomodoros: 1, Position: 1},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on upsert, got %d: %s", status, body)
	}
	var upserted syncapi.TaskEnvelope
	decode(t, body, &upserted)
	if upserted.Task.ID != "a" || upserted.Task.Title != "Write report v2" || upserted.Task.CompletedPomodoros != 1 {
		t.Fatalf("unexpected upserted task: %+v", upserted.Task)
	}

	status, body = requestJSON(t, engine, http.MethodPut, "/api/tasks/a", user.Token, syncapi.TaskEnvelope{
		Task: syncapi.TaskRow{ID: "other", Title: "x", EstimatedPomodoros: 1},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for id mismatch, got %d", status)
	}
	assertErrorCode(t, body, "task_id_mismatch")

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/tasks/b", user.Token, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", status)
	}
	status, body = requestJSON(t, engine, http.MethodDelete, "/api/tasks/b", user.Token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", status)
	}
	assertErrorCode(t, body, "task_not_found")

	if tasks := listTasks(t, engine, user.Token); len(tasks) != 1 || tasks[0].ID != "a" {
		t.Fatalf("unexpected tasks after delete: %+v", tasks)
	}
}

func TestTasksValidation(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "invalid@example.com", "123456")

	cases := []struct {
		name string
		rows []syncapi.TaskRow
		code string
	}{
		{"blank title", []syncapi.TaskRow{{ID: "a", Title: "  ", EstimatedPomodoros: 1}}, "invalid_task"},
		{"zero estimate", []syncapi.TaskRow{{ID: "a", Title: "x"}}, "invalid_task"},
		{"duplicate id", []syncapi.TaskRow{
			{ID: "a", Title: "x", EstimatedPomodoros: 1},
			{ID: "a", Title: "y", EstimatedPomodoros: 1},
		}, "duplicate_task"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := requestJSON(t, engine, http.MethodPut, "/api/tasks", user.Token, syncapi.TasksEnvelope{Tasks: tc.rows})
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
			assertErrorCode(t, body, tc.code)
		})
	}

	req := httptest.NewRequest(http.MethodPut, "/api/tasks", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+user.Token)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", recorder.Code)
	}
	assertErrorCode(t, recorder.Body.Bytes(), "invalid_json")
}

func TestHistoryAppendLimitClear(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "history@example.com", "123456")

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	title := "Write report"
	for i := 0; i < 3; i++ {
		entry := syncapi.HistoryRow{
			ID:        string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * 25 * time.Minute),
			TaskTitle: &title,
		}
		status, body := requestJSON(t, engine, http.MethodPost, "/api/history", user.Token, syncapi.HistoryEntryEnvelope{Entry: entry})
		if status != http.StatusCreated {
			t.Fatalf("expected 201 on append, got %d: %s", status, body)
		}
	}

	// Appending the same id again is accepted and stored once.
	status, _ := requestJSON(t, engine, http.MethodPost, "/api/history", user.Token, syncapi.HistoryEntryEnvelope{
		Entry: syncapi.HistoryRow{ID: "a", Timestamp: base},
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on repeated append, got %d", status)
	}

	history := listHistory(t, engine, user.Token, "")
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	if history[0].ID != "c" || history[2].ID != "a" {
		t.Fatalf("expected newest first, got %s..%s", history[0].ID, history[2].ID)
	}
	if history[0].TaskTitle == nil || *history[0].TaskTitle != title {
		t.Fatalf("expected task title to round-trip, got %v", history[0].TaskTitle)
	}

	if limited := listHistory(t, engine, user.Token, "?limit=2"); len(limited) != 2 {
		t.Fatalf("expected 2 entries with limit, got %d", len(limited))
	}

	status, body := requestJSON(t, engine, http.MethodPost, "/api/history", user.Token, syncapi.HistoryEntryEnvelope{
		Entry: syncapi.HistoryRow{ID: "d"},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing timestamp, got %d", status)
	}
	assertErrorCode(t, body, "invalid_history")

	status, _ = requestJSON(t, engine, http.MethodPut, "/api/history", user.Token, syncapi.HistoryEnvelope{
		History: []syncapi.HistoryRow{{ID: "z", Timestamp: base}},
	})
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 on replace, got %d", status)
	}
	if replaced := listHistory(t, engine, user.Token, ""); len(replaced) != 1 || replaced[0].ID != "z" || replaced[0].TaskTitle != nil {
		t.Fatalf("unexpected history after replace: %+v", replaced)
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/history", user.Token, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 on clear, got %d", status)
	}
	if cleared := listHistory(t, engine, user.Token, ""); len(cleared) != 0 {
		t.Fatalf("expected empty history, got %d", len(cleared))
	}
}

func TestSettingsAndSession(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "settings@example.com", "123456")

	settings := syncapi.SettingsRow{
		FocusMinutes:      50,
		ShortBreakMinutes: 10,
		LongBreakMinutes:  30,
		AutoStartBreaks:   true,
		LongBreakInterval: 2,
		AlarmSound:        "bird",
		AlarmVolume:       0.8,
	}
	status, body := requestJSON(t, engine, http.MethodPut, "/api/settings", user.Token, syncapi.SettingsEnvelope{Settings: settings})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on put settings, got %d: %s", status, body)
	}

	_, body = requestJSON(t, engine, http.MethodGet, "/api/settings", user.Token, nil)
	var stored syncapi.SettingsEnvelope
	decode(t, body, &stored)
	if stored.Settings.FocusMinutes != 50 || stored.Settings.AlarmSound != "bird" || !stored.Settings.AutoStartBreaks {
		t.Fatalf("unexpected stored settings: %+v", stored.Settings)
	}

	settings.LongBreakInterval = 0
	status, body = requestJSON(t, engine, http.MethodPut, "/api/settings", user.Token, syncapi.SettingsEnvelope{Settings: settings})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid settings, got %d", status)
	}
	assertErrorCode(t, body, "invalid_settings")

	taskID := "a"
	status, body = requestJSON(t, engine, http.MethodPut, "/api/session", user.Token, syncapi.SessionEnvelope{
		Session: syncapi.SessionRow{Mode: "long_break", TimeLeftSeconds: 600, CompletedPomodoros: 4, ActiveTaskID: &taskID},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on put session, got %d: %s", status, body)
	}
	_, body = requestJSON(t, engine, http.MethodGet, "/api/session", user.Token, nil)
	var session syncapi.SessionEnvelope
	decode(t, body, &session)
	if session.Session.Mode != "long_break" || session.Session.CompletedPomodoros != 4 ||
		session.Session.ActiveTaskID == nil || *session.Session.ActiveTaskID != "a" {
		t.Fatalf("unexpected session: %+v", session.Session)
	}

	status, body = requestJSON(t, engine, http.MethodPut, "/api/session", user.Token, syncapi.SessionEnvelope{
		Session: syncapi.SessionRow{Mode: "nap"},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid mode, got %d", status)
	}
	assertErrorCode(t, body, "invalid_mode")
}

func TestUserIsolation(t *testing.T) {
	engine := setupTestEngine(t)
	user1 := registerUser(t, engine, "user1@example.com", "123456")
	user2 := registerUser(t, engine, "user2@example.com", "123456")

	status, _ := requestJSON(t, engine, http.MethodPut, "/api/tasks", user1.Token, syncapi.TasksEnvelope{
		Tasks: []syncapi.TaskRow{{ID: "shared-id", Title: "Mine", EstimatedPomodoros: 1}},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on replace, got %d", status)
	}
	status, _ = requestJSON(t, engine, http.MethodPut, "/api/tasks", user2.Token, syncapi.TasksEnvelope{
		Tasks: []syncapi.TaskRow{{ID: "shared-id", Title: "Theirs", EstimatedPomodoros: 1}},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on replace, got %d", status)
	}

	if tasks := listTasks(t, engine, user1.Token); len(tasks) != 1 || tasks[0].Title != "Mine" {
		t.Fatalf("user1 sees %+v", tasks)
	}
	if tasks := listTasks(t, engine, user2.Token); len(tasks) != 1 || tasks[0].Title != "Theirs" {
		t.Fatalf("user2 sees %+v", tasks)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := setupTestEngine(t)

	for _, path := range []string{"/api/tasks", "/api/history", "/api/settings", "/api/session", "/api/auth/me"} {
		status, body := requestJSON(t, engine, http.MethodGet, path, "", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", path, status)
		}
		assertErrorCode(t, body, "unauthorized")
	}

	status, _ := requestJSON(t, engine, http.MethodGet, "/api/tasks", "not-a-token", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", status)
	}
}

func TestHealth(t *testing.T) {
	engine := setupTestEngine(t)
	status, _ := requestJSON(t, engine, http.MethodGet, "/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 for health, got %d", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/a", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
	if !bytes.Contains([]byte(recorder.Header().Get("Access-Control-Allow-Methods")), []byte("DELETE")) {
		t.Fatalf("expected DELETE in allowed methods, got %s", recorder.Header().Get("Access-Control-Allow-Methods"))
	}
}

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	migrations, err := db.Migrations("")
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if err := db.RunMigrations(database, migrations); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	authService := service.NewAuthService(userRepo, settingsRepo, sessionRepo, "test-secret", 24*time.Hour)
	syncService := service.NewSyncService(
		repository.NewTaskRepository(database),
		repository.NewHistoryRepository(database),
		settingsRepo,
		sessionRepo,
	)

	authHandler := handler.NewAuthHandler(authService)
	syncHandler := handler.NewSyncHandler(syncService)

	return router.New(authService, authHandler, syncHandler, []string{"http://localhost:5173"})
}

func registerUser(t *testing.T, server http.Handler, email, password string) syncapi.AuthResponse {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s failed with status %d: %s", email, status, string(body))
	}
	var resp syncapi.AuthResponse
	decode(t, body, &resp)
	if resp.Token == "" {
		t.Fatalf("empty token for user %s", email)
	}
	return resp
}

func listTasks(t *testing.T, server http.Handler, token string) []syncapi.TaskRow {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodGet, "/api/tasks", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list tasks failed with status %d: %s", status, string(body))
	}
	var resp syncapi.TasksEnvelope
	decode(t, body, &resp)
	return resp.Tasks
}

func listHistory(t *testing.T, server http.Handler, token, query string) []syncapi.HistoryRow {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodGet, "/api/history"+query, token, nil)
	if status != http.StatusOK {
		t.Fatalf("list history failed with status %d: %s", status, string(body))
	}
	var resp syncapi.HistoryEnvelope
	decode(t, body, &resp)
	return resp.History
}

func assertErrorCode(t *testing.T, body []byte, code string) {
	t.Helper()
	var resp apiErrorEnvelope
	decode(t, body, &resp)
	if resp.Error.Code != code {
		t.Fatalf("expected error code %s, got %s (%s)", code, resp.Error.Code, resp.Error.Message)
	}
}

func decode(t *testing.T, body []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("unmarshal response %s: %v", string(body), err)
	}
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path, token string,
	body any,
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
