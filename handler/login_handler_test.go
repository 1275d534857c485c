package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/finsight-ai/finsight-be/service"
	"github.com/finsight-ai/finsight-be/types"
	"github.com/finsight-ai/finsight-be/utils"
)

func loginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", NewLoginHandler(service.NewStaticAuthenticator(nil)).HandleLogin)
	return router
}

func postLogin(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleLogin_Success(t *testing.T) {
	w := postLogin(t, loginRouter(), types.LoginRequest{Username: "admin", Password: "admin123"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool                `json:"status"`
		Data   types.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Status || resp.Data.AccessToken == "" {
		t.Errorf("response = %s", w.Body.String())
	}
}

func TestHandleLogin_RoleFromAuthenticator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := service.NewStaticAuthenticator(map[string]string{"analyst": "s3cret"}).
		WithRoles(map[string]string{"analyst": "admin"})
	router := gin.New()
	router.POST("/login", NewLoginHandler(auth).HandleLogin)

	w := postLogin(t, router, types.LoginRequest{Username: "analyst", Password: "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data types.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	claims, err := utils.ParseToken(resp.Data.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Username != "analyst" || claims.Role != "admin" {
		t.Errorf("claims = %+v, want role from the credential store", claims)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	w := postLogin(t, loginRouter(), types.LoginRequest{Username: "admin", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestHandleLogin_BadBody(t *testing.T) {
	router := loginRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
