package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hiremesh/jobhub/internal/http/middlewares"
)

func TestRequireJSON(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		contentType    string
		wantStatusCode int
	}{
		{
			name:           "json_post_passes",
			method:         http.MethodPost,
			body:           `{"jobId": "abc"}`,
			contentType:    "application/json",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "json_with_charset_passes",
			method:         http.MethodPut,
			body:           `{}`,
			contentType:    "application/json; charset=utf-8",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "form_post_rejected",
			method:         http.MethodPost,
			body:           "jobId=abc",
			contentType:    "application/x-www-form-urlencoded",
			wantStatusCode: http.StatusUnsupportedMediaType,
		},
		{
			name:           "post_with_body_but_no_content_type_rejected",
			method:         http.MethodPost,
			body:           `{"jobId": "abc"}`,
			wantStatusCode: http.StatusUnsupportedMediaType,
		},
		{
			// logout and the saved job check POST without a payload
			name:           "bodyless_post_passes",
			method:         http.MethodPost,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "get_ignored",
			method:         http.MethodGet,
			contentType:    "text/html",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "delete_ignored",
			method:         http.MethodDelete,
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middlewares.RequireJSON())
			r.Any("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/health", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(16))
	r.POST("/", func(c *gin.Context) {
		var payload map[string]any
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "body too large or malformed"})
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	small.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, small)

	if w.Code != http.StatusOK {
		t.Fatalf("small body: got status %d, want %d", w.Code, http.StatusOK)
	}

	big := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"headline": "`+strings.Repeat("x", 64)+`"}`))
	big.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, big)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized body: got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}
