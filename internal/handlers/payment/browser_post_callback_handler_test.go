package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/vinti4"
)

// Fingerprint for secret "ABC123" over the approved callback fields below
const approvedFingerprint = "R197aGKYyhLZa3SRXQMFNAJdPnKFqLDIDVevRfDHwhLu28ScqTU56RpcwRRmy7mTynAG4gMqaAUWVNcy3iYK5w=="

func newCallbackHandler() *BrowserPostCallbackHandler {
	config := vinti4.DefaultBrowserPostConfig("9999", "ABC123")
	return NewBrowserPostCallbackHandler(config, zap.NewNop())
}

func approvedCallbackForm() url.Values {
	return url.Values{
		"messageType":                 {"8"},
		"merchantRespCP":              {"C1"},
		"merchantRespTid":             {"00004372"},
		"merchantRespMerchantRef":     {"R20240101100000"},
		"merchantRespMerchantSession": {"S20240101100000"},
		"merchantRespPurchaseAmount":  {"1000.00"},
		"merchantRespMessageID":       {"M1"},
		"merchantRespPan":             {"424242******4242"},
		"merchantResp":                {"A"},
		"merchantRespTimeStamp":       {"2024-01-01 10:05:00"},
		"merchantRespClientReceipt":   {"receipt-001"},
		"resultFingerPrint":           {approvedFingerprint},
	}
}

func doCallback(t *testing.T, handler *BrowserPostCallbackHandler, form url.Values) (*httptest.ResponseRecorder, callbackResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/vinti4/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.HandleCallback(rec, req)

	var body callbackResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func TestHandleCallback_Approved(t *testing.T) {
	handler := newCallbackHandler()

	rec, body := doCallback(t, handler, approvedCallbackForm())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Valid)
	assert.True(t, body.Success)
	assert.Equal(t, "approved", body.Reason)
	assert.Equal(t, "approved", body.Category)
	assert.Empty(t, body.Code)
	assert.Equal(t, "R20240101100000", body.MerchantRef)
	assert.Equal(t, "1000.00", body.Amount)
	assert.Equal(t, "receipt-001", body.ClientReceipt)
}

func TestHandleCallback_Declined(t *testing.T) {
	handler := newCallbackHandler()

	form := url.Values{
		"messageType":                  {"6"},
		"merchantRespErrorDescription": {"Invalid card"},
		"merchantRespErrorDetail":      {""},
	}

	rec, body := doCallback(t, handler, form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.Valid)
	assert.False(t, body.Success)
	assert.Equal(t, "declined", body.Reason)
	assert.Equal(t, "declined", body.Category)
	assert.Equal(t, "GATEWAY_DECLINED", body.Code)
	assert.Equal(t, "Invalid card", body.Message)
	assert.Equal(t, "6", body.Data["messageType"])
}

func TestHandleCallback_FingerprintMismatch(t *testing.T) {
	handler := newCallbackHandler()

	form := approvedCallbackForm()
	form.Set("resultFingerPrint", "garbage")

	rec, body := doCallback(t, handler, form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.Valid)
	assert.Equal(t, "fingerprint_mismatch", body.Reason)
	assert.Equal(t, "integrity", body.Category)
	assert.Equal(t, "FINGERPRINT_MISMATCH", body.Code)
	assert.Contains(t, body.Message, "fingerprint")
}

func TestHandleCallback_MissingMessageType(t *testing.T) {
	handler := newCallbackHandler()

	rec, body := doCallback(t, handler, url.Values{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.Valid)
	assert.Equal(t, "missing_message_type", body.Reason)
	assert.Equal(t, "invalid_request", body.Category)
	assert.Equal(t, "GATEWAY_MISSING_MESSAGE_TYPE", body.Code)
	assert.Equal(t, "missing message type field", body.Message)
}

func TestHandleCallback_RawDataAttached(t *testing.T) {
	handler := newCallbackHandler()

	form := approvedCallbackForm()
	form.Set("unexpectedExtra", "kept")

	rec, body := doCallback(t, handler, form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kept", body.Data["unexpectedExtra"])
	assert.Equal(t, "8", body.Data["messageType"])
}

func TestHandleCallback_MethodNotAllowed(t *testing.T) {
	handler := newCallbackHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/vinti4/callback", nil)
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
