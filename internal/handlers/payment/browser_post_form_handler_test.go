package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/vinti4"
)

func newFormHandler() *BrowserPostFormHandler {
	config := vinti4.DefaultBrowserPostConfig("9999", "ABC123")
	return NewBrowserPostFormHandler(config, zap.NewNop())
}

func doFormRequest(t *testing.T, handler *BrowserPostFormHandler, query url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/vinti4/form?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	handler.GetPaymentForm(rec, req)

	return rec
}

func TestGetPaymentForm_RendersAutoSubmitForm(t *testing.T) {
	handler := newFormHandler()

	rec := doFormRequest(t, handler, url.Values{
		"amount":     {"1000.00"},
		"return_url": {"https://shop.example.cv/complete"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `action="https://mc.vinti4net.cv/BizMPIOnUs/CardPayment?FingerPrint=`)
	assert.Contains(t, body, `name="merchantRef"`)
	assert.Contains(t, body, `name="fingerprint"`)
	assert.Contains(t, body, `name="posID" value="9999"`)
	assert.Contains(t, body, `document.forms[0].submit()`)
}

func TestGetPaymentForm_NeverLeaksSecret(t *testing.T) {
	handler := newFormHandler()

	rec := doFormRequest(t, handler, url.Values{
		"amount":     {"1000.00"},
		"return_url": {"https://shop.example.cv/complete"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ABC123")
}

func TestGetPaymentForm_JSONFormat(t *testing.T) {
	handler := newFormHandler()

	rec := doFormRequest(t, handler, url.Values{
		"amount":     {"250.00"},
		"return_url": {"https://shop.example.cv/complete"},
		"format":     {"json"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		PostURL string            `json:"postURL"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Contains(t, payload.PostURL, "FingerPrintVersion=1")
	assert.Equal(t, "9999", payload.Fields["posID"])
	assert.Equal(t, "250.00", payload.Fields["amount"])
	assert.Equal(t, "132", payload.Fields["currency"])
	assert.NotEmpty(t, payload.Fields["fingerprint"])
}

func TestGetPaymentForm_ExtrasPassThrough(t *testing.T) {
	handler := newFormHandler()

	rec := doFormRequest(t, handler, url.Values{
		"amount":           {"250.00"},
		"return_url":       {"https://shop.example.cv/complete"},
		"transaction_code": {"2"},
		"entity_code":      {"7"},
		"reference_number": {"12345"},
		"format":           {"json"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Equal(t, "2", payload.Fields["transactionCode"])
	assert.Equal(t, "7", payload.Fields["entityCode"])
	assert.Equal(t, "12345", payload.Fields["referenceNumber"])
}

func TestGetPaymentForm_MissingParameters(t *testing.T) {
	handler := newFormHandler()

	tests := []struct {
		name  string
		query url.Values
	}{
		{"missing amount", url.Values{"return_url": {"https://shop.example.cv/complete"}}},
		{"missing return_url", url.Values{"amount": {"250.00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doFormRequest(t, handler, tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetPaymentForm_InvalidAmount(t *testing.T) {
	handler := newFormHandler()

	rec := doFormRequest(t, handler, url.Values{
		"amount":     {"not-a-number"},
		"return_url": {"https://shop.example.cv/complete"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount")
}

func TestGetPaymentForm_MethodNotAllowed(t *testing.T) {
	handler := newFormHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/vinti4/form", nil)
	rec := httptest.NewRecorder()
	handler.GetPaymentForm(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
