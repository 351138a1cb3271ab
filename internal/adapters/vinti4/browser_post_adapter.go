package vinti4

import (
	"net/url"
	"time"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/ports"
	"github.com/erilshackle/vinti4-payment-service/internal/domain"
	pkgerrors "github.com/erilshackle/vinti4-payment-service/pkg/errors"
	"go.uber.org/zap"
)

const (
	// fingerprintVersion is a fixed protocol constant
	fingerprintVersion = "1"

	// defaultTransactionCode is a standard purchase; "2" = service payment, "3" = recharge
	defaultTransactionCode = "1"
)

// BrowserPostConfig contains configuration for the Vinti4 Browser Post adapter
type BrowserPostConfig struct {
	// Vinti4 card payment endpoint
	// Production: https://mc.vinti4net.cv/BizMPIOnUs/CardPayment
	PostURL string

	// POS terminal identifier issued by the gateway (public)
	PosID string

	// POS authentication code (shared secret). Keys the fingerprint hash; must
	// never appear in logs, error messages or results.
	PosAutCode string

	// ISO 4217 numeric currency code (default "132" = Cape Verdean escudo)
	Currency string

	// Gateway UI language for hosted payment pages
	Language string
}

// DefaultBrowserPostConfig returns default configuration for the Browser Post adapter
func DefaultBrowserPostConfig(posID, posAutCode string) *BrowserPostConfig {
	return &BrowserPostConfig{
		PostURL:    "https://mc.vinti4net.cv/BizMPIOnUs/CardPayment",
		PosID:      posID,
		PosAutCode: posAutCode,
		Currency:   "132",
		Language:   "pt",
	}
}

// browserPostAdapter implements the BrowserPostAdapter port
type browserPostAdapter struct {
	config     *BrowserPostConfig
	logger     *zap.Logger
	lastResult *ports.CallbackResult
}

// NewBrowserPostAdapter creates a new Vinti4 Browser Post adapter.
// The adapter caches the last validation result and is therefore not safe for
// concurrent use; create one instance per transaction.
func NewBrowserPostAdapter(config *BrowserPostConfig, logger *zap.Logger) ports.BrowserPostAdapter {
	return &browserPostAdapter{
		config: config,
		logger: logger,
	}
}

// BuildPaymentForm assembles the payment fields, computes the request fingerprint
// and returns the form data ready for rendering.
//
// merchantRef and merchantSession are derived from a second-resolution timestamp,
// so two calls within the same second produce colliding references. That is a
// known protocol-level limitation; the gateway disambiguates via TID/session and
// adding a collision-avoiding suffix here would break wire compatibility.
func (a *browserPostAdapter) BuildPaymentForm(amount, responseURL string, extras map[string]string) (*ports.PaymentFormData, error) {
	if amount == "" {
		return nil, domain.WrapError(domain.ErrorCodeValidationMissingField, "missing required field",
			pkgerrors.NewValidationError("amount", "amount is required"))
	}
	if responseURL == "" {
		return nil, domain.WrapError(domain.ErrorCodeValidationMissingField, "missing required field",
			pkgerrors.NewValidationError("responseURL", "response URL is required"))
	}

	now := time.Now()
	seq := now.Format("20060102150405")

	fields := map[string]string{
		"transactionCode":     defaultTransactionCode,
		"posID":               a.config.PosID,
		"merchantRef":         "R" + seq,
		"merchantSession":     "S" + seq,
		"amount":              amount,
		"currency":            a.config.Currency,
		"entityCode":          "",
		"referenceNumber":     "",
		"urlMerchantResponse": responseURL,
		"languageMessages":    a.config.Language,
		"timeStamp":           now.Format("2006-01-02 15:04:05"),
		"fingerprintversion":  fingerprintVersion,
	}

	// extras may override any default field; the fingerprint and post URL are
	// always recomputed from the merged set, never accepted from the caller
	for key, value := range extras {
		if key == "fingerprint" || key == "postURL" {
			continue
		}
		fields[key] = value
	}

	amt := fields["amount"]
	parsed, err := parseAmount(amt)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeValidationAmountInvalid, "invalid amount",
			pkgerrors.NewValidationError("amount", "amount must be numeric"))
	}

	// Request fingerprint field order is the wire contract with the gateway
	fingerprint := digest(a.config.PosAutCode,
		fields["timeStamp"],
		minorUnits(parsed),
		fields["merchantRef"],
		fields["merchantSession"],
		fields["posID"],
		fields["currency"],
		fields["transactionCode"],
		intOrZero(fields["entityCode"]),
		intOrZero(fields["referenceNumber"]),
	)

	form := &ports.PaymentFormData{
		PostURL:            a.buildPostURL(fingerprint, fields["timeStamp"]),
		TransactionCode:    fields["transactionCode"],
		PosID:              fields["posID"],
		MerchantRef:        fields["merchantRef"],
		MerchantSession:    fields["merchantSession"],
		Amount:             amt,
		Currency:           fields["currency"],
		EntityCode:         fields["entityCode"],
		ReferenceNumber:    fields["referenceNumber"],
		ResponseURL:        fields["urlMerchantResponse"],
		Language:           fields["languageMessages"],
		TimeStamp:          fields["timeStamp"],
		FingerPrint:        fingerprint,
		FingerPrintVersion: fields["fingerprintversion"],
	}

	a.logger.Info("Built Vinti4 payment form",
		zap.String("merchant_ref", form.MerchantRef),
		zap.String("merchant_session", form.MerchantSession),
		zap.String("amount", form.Amount),
		zap.String("currency", form.Currency),
	)

	return form, nil
}

// buildPostURL appends the fingerprint query parameters to the gateway endpoint.
// Parameter order matches the gateway documentation.
func (a *browserPostAdapter) buildPostURL(fingerprint, timeStamp string) string {
	return a.config.PostURL +
		"?FingerPrint=" + url.QueryEscape(fingerprint) +
		"&TimeStamp=" + url.QueryEscape(timeStamp) +
		"&FingerPrintVersion=" + url.QueryEscape(fingerprintVersion)
}
