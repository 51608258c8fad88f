package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/user-auth-service/internal/utils"
)

func testRouter(t *testing.T) (*gin.Engine, Service) {
	t.Helper()
	return localizedRouter(t, "en")
}

func localizedRouter(t *testing.T, locale string) (*gin.Engine, Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := testService(t)
	r := gin.New()
	NewHandler(r.Group("/user"), svc, utils.NewCatalog(locale), zap.NewNop())
	return r, svc
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHandler_CreateUser(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(r, http.MethodPost, "/user/create", gin.H{
		"email": "ada@example.com", "name": "Ada", "password": "password1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["email"] != "ada@example.com" || body["role"] != "CUSTOMER" || body["isActive"] != true {
		t.Errorf("body = %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Error("password hash must not be serialized")
	}

	w = doJSON(r, http.MethodPost, "/user/create", gin.H{
		"email": "ada@example.com", "name": "Ada", "password": "password1",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
}

func TestHandler_CreateUserValidation(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(r, http.MethodPost, "/user/create", gin.H{"email": "nope", "password": "pw"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	fields, ok := decode(t, w)["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected field errors in %s", w.Body.String())
	}
	for _, f := range []string{"email", "name", "password"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing field error for %q", f)
		}
	}
}

func TestHandler_ServiceValidationIsLocalized(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		body   gin.H
		want   string
	}{
		{"blank password en", "en", gin.H{"email": "ada@example.com", "name": "Ada", "password": "        "}, "password must not be blank"},
		{"blank password pt-BR", "pt-BR", gin.H{"email": "ada@example.com", "name": "Ada", "password": "        "}, "a senha não pode estar em branco"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := localizedRouter(t, tt.locale)
			w := doJSON(r, http.MethodPost, "/user/create", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if got := decode(t, w)["error"]; got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationMessageKey(t *testing.T) {
	tests := []struct {
		err  error
		want utils.MessageKey
		ok   bool
	}{
		{ErrInvalidEmailFormat, utils.MsgInvalidEmail, true},
		{ErrInvalidRole, utils.MsgInvalidRole, true},
		{ErrPasswordBlank, utils.MsgPasswordBlank, true},
		{ErrPasswordTooShort, utils.MsgPasswordTooShort, true},
		{ErrPasswordTooLong, utils.MsgPasswordTooLong, true},
		{ErrUserNotFound, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := ValidationMessageKey(tt.err)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ValidationMessageKey(%v) = %q, %v; want %q, %v", tt.err, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHandler_ReadUserByID(t *testing.T) {
	r, svc := testRouter(t)
	u, err := svc.Create(context.Background(), "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/user/" + u.ID, http.StatusOK},
		{"unknown", "/user/00000000-0000-0000-0000-000000000000", http.StatusNotFound},
		{"malformed id", "/user/42", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doJSON(r, http.MethodGet, tt.path, nil); w.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestHandler_UpdateUser(t *testing.T) {
	r, svc := testRouter(t)
	u, err := svc.Create(context.Background(), "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	w := doJSON(r, http.MethodPut, "/user/update/"+u.ID, gin.H{"role": "ADMIN"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["role"] != "ADMIN" || body["name"] != "Ada" {
		t.Errorf("body = %v", body)
	}

	w = doJSON(r, http.MethodPut, "/user/update/"+u.ID, gin.H{"role": "ROOT"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid role status = %d, want 400", w.Code)
	}

	w = doJSON(r, http.MethodPut, "/user/update/00000000-0000-0000-0000-000000000000", gin.H{"name": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}

func TestHandler_DeleteUserIsSoft(t *testing.T) {
	r, svc := testRouter(t)
	u, err := svc.Create(context.Background(), "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	w := doJSON(r, http.MethodDelete, "/user/delete/"+u.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if decode(t, w)["isActive"] != false {
		t.Error("deleted user should be returned with isActive=false")
	}

	w = doJSON(r, http.MethodGet, "/user/"+u.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("deleted user lookup = %d, want 200", w.Code)
	}
	if decode(t, w)["isActive"] != false {
		t.Error("deleted user should still be readable as inactive")
	}
}
