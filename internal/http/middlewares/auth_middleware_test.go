package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hiremesh/jobhub/internal/auth"
	"github.com/hiremesh/jobhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	claims *auth.Claims
	err    error
}

func (s stubVerifier) VerifySessionToken(token string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.claims, nil
}

func identityEcho(c *gin.Context) {
	userID, _ := middlewares.UserIDFromContext(c)
	role, _ := middlewares.RoleFromContext(c)

	c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		cookie         *http.Cookie
		verifier       stubVerifier
		wantStatusCode int
	}{
		{
			name:           "valid_token",
			cookie:         &http.Cookie{Name: "token", Value: "good"},
			verifier:       stubVerifier{claims: &auth.Claims{UserID: "user-1", Role: "seeker"}},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_cookie",
			verifier:       stubVerifier{claims: &auth.Claims{UserID: "user-1", Role: "seeker"}},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "empty_cookie_value",
			cookie:         &http.Cookie{Name: "token", Value: ""},
			verifier:       stubVerifier{claims: &auth.Claims{UserID: "user-1", Role: "seeker"}},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid_token",
			cookie:         &http.Cookie{Name: "token", Value: "bad"},
			verifier:       stubVerifier{err: auth.ErrInvalidToken},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddleware(tt.verifier, "token")

			r := gin.New()
			r.GET("/protected", m.RequireAuth(), identityEcho)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp struct {
					UserID string `json:"userId"`
					Role   string `json:"role"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}

				if resp.UserID != "user-1" || resp.Role != "seeker" {
					t.Fatalf("identity not stashed on context: %+v", resp)
				}

				return
			}

			// every rejection looks identical
			var resp struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if resp.Error.Message != "Missing or invalid session token" {
				t.Fatalf("got message %q", resp.Error.Message)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		required       string
		wantStatusCode int
	}{
		{"matching_role", "employer", "employer", http.StatusOK},
		{"wrong_role", "seeker", "employer", http.StatusForbidden},
		{"seeker_route", "seeker", "seeker", http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			m := middlewares.NewAuthMiddleware(stubVerifier{claims: &auth.Claims{UserID: "user-1", Role: tt.role}}, "token")

			r := gin.New()
			r.GET("/restricted", m.RequireAuth(), m.RequireRole(tt.required), identityEcho)

			req := httptest.NewRequest(http.MethodGet, "/restricted", nil)
			req.AddCookie(&http.Cookie{Name: "token", Value: "good"})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	m := middlewares.NewAuthMiddleware(stubVerifier{}, "token")

	r := gin.New()
	r.GET("/restricted", m.RequireRole("employer"), identityEcho)

	req := httptest.NewRequest(http.MethodGet, "/restricted", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401, body=%s", w.Code, w.Body.String())
	}
}
