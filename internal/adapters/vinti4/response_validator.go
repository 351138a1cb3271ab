package vinti4

import (
	"crypto/hmac"
	"strings"

	"github.com/erilshackle/vinti4-payment-service/internal/adapters/ports"
	"go.uber.org/zap"
)

// successMessageTypes are the gateway message types that report an approved
// outcome: 8 = purchase, 10 = service payment, P = recharge, M = bill payment
var successMessageTypes = map[string]bool{
	"8":  true,
	"10": true,
	"P":  true,
	"M":  true,
}

// ValidateCallback classifies a gateway callback and verifies its fingerprint.
// Classification short-circuits in precedence order: missing message type,
// declined, fingerprint mismatch, approved. Every outcome is a structured
// result; malformed gateway input never produces an error or panic.
func (a *browserPostAdapter) ValidateCallback(params map[string][]string) *ports.CallbackResult {
	getValue := func(key string) string {
		if values, ok := params[key]; ok && len(values) > 0 {
			return values[0]
		}
		return ""
	}

	rawParams := make(map[string]string)
	for key, values := range params {
		if len(values) > 0 {
			rawParams[key] = values[0]
		}
	}

	result := &ports.CallbackResult{
		MessageType:     getValue("messageType"),
		MerchantRef:     getValue("merchantRespMerchantRef"),
		MerchantSession: getValue("merchantRespMerchantSession"),
		Amount:          getValue("merchantRespPurchaseAmount"),
		ClientReceipt:   getValue("merchantRespClientReceipt"),
		RawParams:       rawParams,
	}

	messageType := result.MessageType
	switch {
	case messageType == "":
		result.Reason = ports.ReasonMissingMessageType
		result.Message = "missing message type field"

	case !successMessageTypes[messageType]:
		result.Reason = ports.ReasonDeclined
		result.Message = joinNonEmpty(
			strings.TrimSpace(getValue("merchantRespErrorDescription")),
			strings.TrimSpace(getValue("merchantRespErrorDetail")),
		)

	default:
		expected := digest(a.config.PosAutCode,
			messageType,
			getValue("merchantRespCP"),
			getValue("merchantRespTid"),
			getValue("merchantRespMerchantRef"),
			getValue("merchantRespMerchantSession"),
			minorUnits(amountOrZero(getValue("merchantRespPurchaseAmount"))),
			getValue("merchantRespMessageID"),
			getValue("merchantRespPan"),
			getValue("merchantResp"),
			getValue("merchantRespTimeStamp"),
			intOrZero(getValue("merchantRespReferenceNumber")),
			intOrZero(getValue("merchantRespEntityCode")),
			getValue("merchantRespClientReceipt"),
			strings.TrimSpace(getValue("merchantRespAdditionalErrorMessage")),
			getValue("merchantRespReloadCode"),
		)

		received := getValue("resultFingerPrint")
		if !hmac.Equal([]byte(expected), []byte(received)) {
			result.Reason = ports.ReasonFingerprintMismatch
			result.Message = "fingerprint verification failed"
			a.logger.Error("Callback fingerprint verification failed",
				zap.String("merchant_ref", result.MerchantRef),
				zap.String("merchant_session", result.MerchantSession),
				zap.String("message_type", messageType),
			)
		} else {
			result.Valid = true
			result.Success = true
			result.Reason = ports.ReasonApproved
		}
	}

	if result.Reason != ports.ReasonFingerprintMismatch {
		a.logger.Info("Validated Vinti4 callback",
			zap.String("merchant_ref", result.MerchantRef),
			zap.String("message_type", messageType),
			zap.Bool("valid", result.Valid),
			zap.String("reason", string(result.Reason)),
		)
	}

	a.lastResult = result
	return result
}

// LastResult returns the result of the most recent ValidateCallback call
func (a *browserPostAdapter) LastResult() *ports.CallbackResult {
	return a.lastResult
}

// joinNonEmpty joins the non-empty parts with single spaces
func joinNonEmpty(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
