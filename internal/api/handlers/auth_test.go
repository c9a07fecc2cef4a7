package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/api/middleware"
)

func newAuthTestRouter(operatorPassword string) (*gin.Engine, *middleware.JWTManager) {
	gin.SetMode(gin.TestMode)
	jwtManager := middleware.NewJWTManager("test-secret", time.Hour)
	handler := NewAuthHandler(jwtManager, operatorPassword)

	router := gin.New()
	router.POST("/api/auth/login", handler.Login)
	return router, jwtManager
}

func TestLogin(t *testing.T) {
	router, jwtManager := newAuthTestRouter("hunter2")

	body, _ := json.Marshal(LoginRequest{Password: "hunter2"})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token     string `json:"token"`
			ExpiresAt int64  `json:"expires_at"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success || resp.Data.Token == "" {
		t.Fatalf("response = %+v", resp)
	}

	claims, err := jwtManager.ValidateToken(resp.Data.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Operator != "operator" {
		t.Errorf("Operator = %q", claims.Operator)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := newAuthTestRouter("hunter2")

	body, _ := json.Marshal(LoginRequest{Password: "wrong"})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoginDisabled(t *testing.T) {
	router, _ := newAuthTestRouter("")

	body, _ := json.Marshal(LoginRequest{Password: "anything"})
	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestLoginMissingPassword(t *testing.T) {
	router, _ := newAuthTestRouter("hunter2")

	req, _ := http.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
