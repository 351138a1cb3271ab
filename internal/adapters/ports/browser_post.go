package ports

// PaymentFormData contains all fields needed to construct the HTML form that posts to Vinti4
// The browser submits these as hidden inputs directly to the gateway, so every value is a
// string in the exact format the gateway expects
type PaymentFormData struct {
	// Vinti4 endpoint with FingerPrint, TimeStamp and FingerPrintVersion query parameters
	// already appended. This becomes the form action; it is never a hidden input.
	PostURL string

	// Transaction details
	TransactionCode string // "1" = purchase, "2" = service payment, "3" = recharge
	PosID           string // Merchant terminal identifier (public)
	MerchantRef     string // "R" + YmdHis, unique per request
	MerchantSession string // "S" + YmdHis, unique per request
	Amount          string // Decimal amount as given by the caller (e.g. "1000.00")
	Currency        string // ISO 4217 numeric code (e.g. "132" = CVE)

	// Bill-pay variants
	EntityCode      string
	ReferenceNumber string

	// Callback and presentation
	ResponseURL string // Merchant URL the gateway posts the result back to
	Language    string // Gateway UI language (e.g. "pt", "en")

	// Protocol fields
	TimeStamp          string // "2006-01-02 15:04:05", second resolution, merchant-local
	FingerPrint        string // Request fingerprint, always recomputed
	FingerPrintVersion string // Protocol constant "1"
}

// Fields returns the hidden form fields keyed by the wire names the gateway expects.
// PostURL is excluded; it is the form action.
func (f *PaymentFormData) Fields() map[string]string {
	return map[string]string{
		"transactionCode":     f.TransactionCode,
		"posID":               f.PosID,
		"merchantRef":         f.MerchantRef,
		"merchantSession":     f.MerchantSession,
		"amount":              f.Amount,
		"currency":            f.Currency,
		"entityCode":          f.EntityCode,
		"referenceNumber":     f.ReferenceNumber,
		"urlMerchantResponse": f.ResponseURL,
		"languageMessages":    f.Language,
		"timeStamp":           f.TimeStamp,
		"fingerprint":         f.FingerPrint,
		"fingerprintversion":  f.FingerPrintVersion,
	}
}

// CallbackReason classifies the outcome of callback validation.
// Fingerprint mismatches are security-relevant and must stay distinguishable from
// ordinary declines even though the result shape is the same.
type CallbackReason string

const (
	// ReasonApproved means the message type is a success type and the fingerprint matched
	ReasonApproved CallbackReason = "approved"

	// ReasonMissingMessageType means the callback carried no messageType field
	ReasonMissingMessageType CallbackReason = "missing_message_type"

	// ReasonDeclined means the gateway reported a non-success message type
	ReasonDeclined CallbackReason = "declined"

	// ReasonFingerprintMismatch means the recomputed fingerprint did not match the
	// received one: possible tampering or secret misconfiguration
	ReasonFingerprintMismatch CallbackReason = "fingerprint_mismatch"
)

// CallbackResult is the structured verdict for one gateway callback
type CallbackResult struct {
	// Valid is true only when the fingerprint check passed
	Valid bool

	// Success mirrors Valid today; kept separate so a future valid-but-declined
	// state does not change the shape
	Success bool

	// Reason is the machine-readable classification
	Reason CallbackReason

	// Message is human-readable: gateway-supplied for declines, fixed text otherwise
	Message string

	// Echo-back fields parsed from the callback for caller convenience
	MessageType     string
	MerchantRef     string
	MerchantSession string
	Amount          string
	ClientReceipt   string

	// RawParams holds every callback field as received, for audit and logging
	RawParams map[string]string
}

// BrowserPostAdapter defines the port for the Vinti4 redirect payment flow.
// The flow is client-side (the browser posts directly to the gateway), so this
// adapter builds signed forms and validates callbacks; it never makes API calls.
type BrowserPostAdapter interface {
	// BuildPaymentForm assembles the payment fields, computes the request
	// fingerprint and returns the ready-to-render form data.
	// extras may override any default field except fingerprint and postURL,
	// which are always recomputed from the merged field set.
	BuildPaymentForm(amount, responseURL string, extras map[string]string) (*PaymentFormData, error)

	// ValidateCallback classifies the callback fields and verifies the response
	// fingerprint. It never returns an error for malformed gateway input; every
	// outcome is a structured CallbackResult.
	ValidateCallback(params map[string][]string) *CallbackResult

	// LastResult returns the result of the most recent ValidateCallback call,
	// or nil if none was made. Not safe for concurrent use; use one adapter
	// instance per transaction.
	LastResult() *CallbackResult
}
