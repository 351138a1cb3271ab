package payment

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/vinti4"
	"github.com/erilshackle/vinti4-payment-service/internal/domain"
	pkgerrors "github.com/erilshackle/vinti4-payment-service/pkg/errors"
	"github.com/erilshackle/vinti4-payment-service/pkg/observability"
)

// BrowserPostFormHandler generates signed payment forms for the Vinti4 redirect flow
type BrowserPostFormHandler struct {
	config *vinti4.BrowserPostConfig
	logger *zap.Logger
}

// NewBrowserPostFormHandler creates a new payment form handler
func NewBrowserPostFormHandler(config *vinti4.BrowserPostConfig, logger *zap.Logger) *BrowserPostFormHandler {
	return &BrowserPostFormHandler{
		config: config,
		logger: logger,
	}
}

// GetPaymentForm builds a signed payload and renders it as an auto-submitting
// HTML form posting to the gateway. With format=json the raw field map and post
// URL are returned instead, for frontends that render their own form.
// Endpoint: GET /api/v1/payments/vinti4/form?amount=1000.00&return_url=https://shop.example.cv/complete
func (h *BrowserPostFormHandler) GetPaymentForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()

	query := r.URL.Query()
	amount := query.Get("amount")
	if amount == "" {
		http.Error(w, "amount parameter is required", http.StatusBadRequest)
		return
	}
	returnURL := query.Get("return_url")
	if returnURL == "" {
		http.Error(w, "return_url parameter is required", http.StatusBadRequest)
		return
	}

	// Optional overrides for bill-pay and recharge variants
	extras := make(map[string]string)
	for param, field := range map[string]string{
		"transaction_code": "transactionCode",
		"entity_code":      "entityCode",
		"reference_number": "referenceNumber",
		"language":         "languageMessages",
		"currency":         "currency",
	} {
		if value := query.Get(param); value != "" {
			extras[field] = value
		}
	}

	// One adapter per request: the engine caches validation state and is not
	// safe to share across concurrent transactions
	adapter := vinti4.NewBrowserPostAdapter(h.config, h.logger)

	form, err := adapter.BuildPaymentForm(amount, returnURL, extras)
	if err != nil {
		var validationErr *pkgerrors.ValidationError
		if domain.IsValidationError(err) && errors.As(err, &validationErr) {
			h.logger.Warn("Rejected payment form request",
				zap.String("request_id", requestID),
				zap.String("code", string(domain.GetErrorCode(err))),
				zap.String("field", validationErr.Field),
				zap.String("reason", validationErr.Message),
			)
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}

		paymentErr := pkgerrors.NewPaymentError(
			string(domain.ErrorCodeInternalError), "failed to build payment form", pkgerrors.CategorySystemError)
		h.logger.Error("Failed to build payment form",
			zap.String("request_id", requestID),
			zap.String("code", paymentErr.Code),
			zap.String("category", string(paymentErr.Category)),
			zap.Error(err),
		)
		http.Error(w, paymentErr.Message, http.StatusInternalServerError)
		return
	}

	observability.RecordPaymentForm(form.Currency)

	h.logger.Info("Generated payment form",
		zap.String("request_id", requestID),
		zap.String("merchant_ref", form.MerchantRef),
		zap.String("amount", form.Amount),
	)

	if query.Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"postURL": form.PostURL,
			"fields":  form.Fields(),
		}); err != nil {
			h.logger.Error("Failed to encode form configuration",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
		return
	}

	h.renderAutoSubmitForm(w, requestID, form.PostURL, form.Fields())
}

// renderAutoSubmitForm writes an HTML page that immediately posts the hidden
// fields to the gateway. Field values are HTML-escaped by the template engine.
func (h *BrowserPostFormHandler) renderAutoSubmitForm(w http.ResponseWriter, requestID, postURL string, fields map[string]string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := struct {
		PostURL string
		Fields  map[string]string
	}{
		PostURL: postURL,
		Fields:  fields,
	}

	if err := autoSubmitTemplate.Execute(w, data); err != nil {
		h.logger.Error("Failed to render payment form",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

var autoSubmitTemplate = template.Must(template.New("vinti4form").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Redirecting to Vinti4</title>
</head>
<body onload="document.forms[0].submit()">
    <p>Redirecting to the payment gateway&hellip;</p>
    <form method="post" action="{{.PostURL}}">
{{- range $name, $value := .Fields}}
        <input type="hidden" name="{{$name}}" value="{{$value}}">
{{- end}}
        <noscript><button type="submit">Continue to payment</button></noscript>
    </form>
</body>
</html>
`))
