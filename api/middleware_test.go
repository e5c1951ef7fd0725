package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) UserID(token string) (string, error) {
	return s.userID, s.err
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name           string
		header         string
		verifier       stubVerifier
		expectedStatus int
	}{
		{
			name:           "valid token",
			header:         "Bearer token123",
			verifier:       stubVerifier{userID: "user-1"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			verifier:       stubVerifier{userID: "user-1"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			header:         "Basic dXNlcjpwYXNz",
			verifier:       stubVerifier{userID: "user-1"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty token",
			header:         "Bearer ",
			verifier:       stubVerifier{userID: "user-1"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "rejected token",
			header:         "Bearer expired",
			verifier:       stubVerifier{err: errors.New("token is expired")},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", Auth(tc.verifier), func(c *gin.Context) {
				userID, ok := UserID(c)
				assert.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"user": userID})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}
