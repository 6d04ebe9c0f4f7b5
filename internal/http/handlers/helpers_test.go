package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hiremesh/jobhub/internal/auth"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func newUUID() string {
	return uuid.NewString()
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// fakeVerifier stands in for the jwt manager so protected handlers can be
// exercised through the real auth middleware.

type fakeVerifier struct {
	userID string
	role   string
}

func (f fakeVerifier) VerifySessionToken(token string) (*auth.Claims, error) {
	return &auth.Claims{UserID: f.userID, Role: f.role}, nil
}

// setupAuthedRouter mounts the handler behind RequireAuth with a verifier
// that always resolves to the given identity.

func setupAuthedRouter(method, path, userID, role string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	m := middlewares.NewAuthMiddleware(fakeVerifier{userID: userID, role: role}, "token")

	r.Handle(method, path, m.RequireAuth(), h)

	return r
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request

	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	req.AddCookie(&http.Cookie{Name: "token", Value: "session-token"})

	return req
}

// apiErrorResponse mirrors the error envelope for assertions on messages.

type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apiErrorResponse {
	t.Helper()

	var resp apiErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v, body=%s", err, w.Body.String())
	}

	return resp
}
