package payment

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/ports"
	"github.com/erilshackle/vinti4-payment-service/internal/adapters/vinti4"
	"github.com/erilshackle/vinti4-payment-service/internal/domain"
	pkgerrors "github.com/erilshackle/vinti4-payment-service/pkg/errors"
	"github.com/erilshackle/vinti4-payment-service/pkg/observability"
)

// BrowserPostCallbackHandler handles the redirect callback from the Vinti4 gateway.
// The gateway posts the transaction result to the merchant's response URL; this
// endpoint verifies the response fingerprint and returns a structured verdict.
type BrowserPostCallbackHandler struct {
	config *vinti4.BrowserPostConfig
	logger *zap.Logger
}

// NewBrowserPostCallbackHandler creates a new callback handler
func NewBrowserPostCallbackHandler(config *vinti4.BrowserPostConfig, logger *zap.Logger) *BrowserPostCallbackHandler {
	return &BrowserPostCallbackHandler{
		config: config,
		logger: logger,
	}
}

// callbackResponse is the JSON body returned to the caller after validation
type callbackResponse struct {
	Valid           bool              `json:"valid"`
	Success         bool              `json:"success"`
	Reason          string            `json:"reason"`
	Category        string            `json:"category"`
	Code            string            `json:"code,omitempty"`
	Message         string            `json:"message"`
	MerchantRef     string            `json:"merchantRef,omitempty"`
	MerchantSession string            `json:"merchantSession,omitempty"`
	Amount          string            `json:"amount,omitempty"`
	ClientReceipt   string            `json:"clientReceipt,omitempty"`
	Data            map[string]string `json:"data"`
}

// gatewayError maps a non-approved classification to the payment error carried
// on the response surface; approved callbacks map to nil
func gatewayError(result *ports.CallbackResult) *pkgerrors.PaymentError {
	var domainErr *domain.DomainError
	var category pkgerrors.ErrorCategory

	switch result.Reason {
	case ports.ReasonDeclined:
		domainErr = domain.ErrGatewayDeclined
		category = pkgerrors.CategoryDeclined
	case ports.ReasonMissingMessageType:
		domainErr = domain.ErrGatewayMissingType
		category = pkgerrors.CategoryInvalidRequest
	case ports.ReasonFingerprintMismatch:
		domainErr = domain.ErrFingerprintMismatch
		category = pkgerrors.CategoryIntegrity
	default:
		return nil
	}

	paymentErr := pkgerrors.NewPaymentError(string(domainErr.Code), domainErr.Message, category)
	if result.Reason == ports.ReasonDeclined {
		paymentErr.GatewayMessage = result.Message
	}
	return paymentErr
}

// HandleCallback processes the gateway callback.
// Every malformed or declined callback still yields a structured 200 response;
// the gateway is not a client we can meaningfully return errors to.
// Endpoint: POST /api/v1/payments/vinti4/callback
func (h *BrowserPostCallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Vinti4 callback received non-POST request",
			zap.String("method", r.Method),
		)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()

	if err := r.ParseForm(); err != nil {
		h.logger.Error("Failed to parse callback form data",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	// One validator per callback; the engine caches its last result and must
	// not be shared across concurrent requests
	adapter := vinti4.NewBrowserPostAdapter(h.config, h.logger)

	result := adapter.ValidateCallback(r.Form)

	observability.RecordCallback(string(result.Reason))

	paymentErr := gatewayError(result)
	category := pkgerrors.CategoryApproved
	code := ""
	if paymentErr != nil {
		category = paymentErr.Category
		code = paymentErr.Code
	}

	switch result.Reason {
	case ports.ReasonFingerprintMismatch:
		// Security-relevant: possible tampering or secret misconfiguration.
		// The adapter already logged the mismatch; record the metric here.
		observability.RecordFingerprintFailure()
	case ports.ReasonDeclined:
		h.logger.Warn("Payment declined by gateway",
			zap.String("request_id", requestID),
			zap.String("code", code),
			zap.String("merchant_ref", result.MerchantRef),
			zap.String("message_type", result.MessageType),
			zap.String("gateway_message", paymentErr.GatewayMessage),
		)
	case ports.ReasonMissingMessageType:
		h.logger.Warn("Callback missing message type",
			zap.String("request_id", requestID),
			zap.String("code", code),
		)
	case ports.ReasonApproved:
		h.logger.Info("Payment approved",
			zap.String("request_id", requestID),
			zap.String("merchant_ref", result.MerchantRef),
			zap.String("amount", result.Amount),
			zap.String("client_receipt", result.ClientReceipt),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(callbackResponse{
		Valid:           result.Valid,
		Success:         result.Success,
		Reason:          string(result.Reason),
		Category:        string(category),
		Code:            code,
		Message:         result.Message,
		MerchantRef:     result.MerchantRef,
		MerchantSession: result.MerchantSession,
		Amount:          result.Amount,
		ClientReceipt:   result.ClientReceipt,
		Data:            result.RawParams,
	}); err != nil {
		h.logger.Error("Failed to encode callback response",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}
