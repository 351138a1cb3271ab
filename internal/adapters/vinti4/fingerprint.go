package vinti4

import (
	"crypto/sha512"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The Vinti4 fingerprint is a keyed SHA-512 digest over an ordered field
// concatenation with no delimiters. The field order and formatting are part of
// the wire contract with the gateway and must match it byte for byte; adjacent
// numeric fields are only unambiguous because both sides render them the same way.

// secretDigest hashes the POS authentication code. Recomputed on every call so a
// reused engine never carries a stale digest across secrets.
func secretDigest(posAutCode string) string {
	sum := sha512.Sum512([]byte(posAutCode))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// digest computes the fingerprint over the given parts in order:
// base64(SHA-512(secretDigest || part1 || ... || partN))
func digest(posAutCode string, parts ...string) string {
	var b strings.Builder
	b.WriteString(secretDigest(posAutCode))
	for _, p := range parts {
		b.WriteString(p)
	}
	sum := sha512.Sum512([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// minorUnits renders an amount as integer minor units: amount * 1000, truncated
// toward zero, no leading zeros beyond "0"
func minorUnits(amount decimal.Decimal) string {
	return amount.Mul(decimal.NewFromInt(1000)).Truncate(0).String()
}

// parseAmount parses a decimal amount, rejecting empty or non-numeric input
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// amountOrZero parses a decimal amount, treating absent or unparseable values as zero
func amountOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// intOrZero renders an entity/reference code as a plain decimal integer,
// defaulting to "0" when absent or empty
func intOrZero(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "0"
	}
	return strconv.Itoa(n)
}
