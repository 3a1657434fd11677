package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestSendCode_Success(t *testing.T) {
	sender := &stubSender{}
	router := setupRouter(t, sender, routerOptions{echoCode: true})

	rec, body := postJSON(t, router, "/send-2fa", map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	code := fmt.Sprintf("%.0f", body["code"].(float64))
	require.Regexp(t, sixDigits, code)

	require.Len(t, sender.calls, 1)
	call := sender.calls[0]
	require.Equal(t, "user@example.com", call.To)
	require.Equal(t, "Your 2FA Verification Code", call.Subject)
	require.Contains(t, call.HTMLBody, "<h2>"+code+"</h2>")
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSendCode_DeliveryFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("dial tcp: connection refused")}
	router := setupRouter(t, sender, routerOptions{echoCode: true})

	rec, body := postJSON(t, router, "/send-2fa", map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Failed to send email", body["message"])
	require.NotContains(t, body, "code")
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestSendCode_MissingEmail(t *testing.T) {
	cases := map[string]interface{}{
		"no field":    map[string]string{},
		"blank email": map[string]string{"email": "   "},
		"not json":    "email=user@example.com",
		"empty body":  "",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			sender := &stubSender{}
			router := setupRouter(t, sender, routerOptions{echoCode: true})
			rec, body := postJSON(t, router, "/send-2fa", payload)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, false, body["success"])
			require.Equal(t, "email is required", body["message"])
			require.Empty(t, sender.calls)
		})
	}
}

func TestSendCode_EchoDisabled(t *testing.T) {
	sender := &stubSender{}
	router := setupRouter(t, sender, routerOptions{echoCode: false})

	rec, body := postJSON(t, router, "/send-2fa", map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	require.NotContains(t, body, "code")
	require.Len(t, sender.calls, 1)
}

func TestSendCode_Cooldown(t *testing.T) {
	sender := &stubSender{}
	router := setupRouter(t, sender, routerOptions{echoCode: true, cooldown: time.Minute})

	rec, _ := postJSON(t, router, "/send-2fa", map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body := postJSON(t, router, "/send-2fa", map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, false, body["success"])
	require.Len(t, sender.calls, 1)
}

func TestSendCode_RateLimited(t *testing.T) {
	sender := &stubSender{}
	router := setupRouter(t, sender, routerOptions{echoCode: true, rateLimit: time.Minute})

	rec, _ := postJSON(t, router, "/send-2fa", map[string]string{"email": "a@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = postJSON(t, router, "/send-2fa", map[string]string{"email": "b@example.com"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Len(t, sender.calls, 1)
}

func TestVerifyCode_RoundTrip(t *testing.T) {
	sender := &stubSender{}
	router := setupRouter(t, sender, routerOptions{echoCode: true})

	_, body := postJSON(t, router, "/send-2fa", map[string]string{"email": "user@example.com"})
	code := fmt.Sprintf("%.0f", body["code"].(float64))

	rec, body := postJSON(t, router, "/verify-2fa", map[string]string{"email": "user@example.com", "code": "000000"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid code", body["message"])

	rec, body = postJSON(t, router, "/verify-2fa", map[string]string{"email": "user@example.com", "code": code})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["token"])

	rec, _ = postJSON(t, router, "/verify-2fa", map[string]string{"email": "user@example.com", "code": code})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyCode_BadBody(t *testing.T) {
	router := setupRouter(t, &stubSender{}, routerOptions{})
	rec, body := postJSON(t, router, "/verify-2fa", "nope")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, false, body["success"])
}

func TestProperties(t *testing.T) {
	router := setupRouter(t, &stubSender{}, routerOptions{echoCode: true, cooldown: time.Minute})
	req := httptest.NewRequest(http.MethodGet, "/2fa/properties", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true,"properties":{"code_ttl_seconds":300,"cooldown_seconds":60,"echo_code":true}}`, rec.Body.String())
}
