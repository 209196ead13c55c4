package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupGatedRouter(passcode string) *gin.Engine {
	r := gin.New()
	r.Use(PasscodeGate(passcode, testSecret))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func doRequest(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func mustToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	token, _, err := GenerateSessionToken(secret, ttl)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestGenerateSessionToken(t *testing.T) {
	before := time.Now()
	token, expiresAt, err := GenerateSessionToken(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if expiresAt.Before(before.Add(time.Hour - time.Second)) {
		t.Errorf("expiry %v too early", expiresAt)
	}

	claims, err := ValidateSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("expected token to validate: %v", err)
	}
	if claims.Subject != sessionSubject {
		t.Errorf("subject = %q, want %q", claims.Subject, sessionSubject)
	}

	if _, err := ValidateSessionToken("other-secret", token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestValidateSessionToken_WrongTokenType(t *testing.T) {
	claims := &SessionClaims{
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    sessionIssuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if _, err := ValidateSessionToken(testSecret, token); err == nil {
		t.Error("expected non-session token to be rejected")
	}
}

func TestPasscodeGate(t *testing.T) {
	tests := []struct {
		name          string
		passcode      string
		headers       map[string]string
		wantStatus    int
		wantErrorCode string
	}{
		{
			name:       "no_passcode_configured",
			passcode:   "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid_token",
			passcode:   "1234",
			headers:    map[string]string{"Authorization": "Bearer " + mustToken(t, testSecret, time.Hour)},
			wantStatus: http.StatusOK,
		},
		{
			name:          "expired_token",
			passcode:      "1234",
			headers:       map[string]string{"Authorization": "Bearer " + mustToken(t, testSecret, -time.Minute)},
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "UNAUTHORIZED",
		},
		{
			name:          "foreign_token",
			passcode:      "1234",
			headers:       map[string]string{"Authorization": "Bearer " + mustToken(t, "other", time.Hour)},
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "UNAUTHORIZED",
		},
		{
			name:          "missing_credentials",
			passcode:      "1234",
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "UNAUTHORIZED",
		},
		{
			name:          "malformed_header",
			passcode:      "1234",
			headers:       map[string]string{"Authorization": "Token abc"},
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "UNAUTHORIZED",
		},
		{
			name:       "passcode_header",
			passcode:   "1234",
			headers:    map[string]string{PasscodeHeader: "1234"},
			wantStatus: http.StatusOK,
		},
		{
			name:          "wrong_passcode_header",
			passcode:      "1234",
			headers:       map[string]string{PasscodeHeader: "123"},
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "INVALID_PASSCODE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupGatedRouter(tt.passcode)
			rec := doRequest(router, tt.headers)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantErrorCode != "" {
				body := parseBody(t, rec)
				errObj, ok := body["error"].(map[string]interface{})
				if !ok {
					t.Fatal("expected error object in response")
				}
				if code, _ := errObj["code"].(string); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
			}

			if tt.wantStatus == http.StatusOK {
				body := parseBody(t, rec)
				if status, _ := body["status"].(string); status != "ok" {
					t.Errorf("expected handler to be reached, got status = %q", status)
				}
			}
		})
	}
}
