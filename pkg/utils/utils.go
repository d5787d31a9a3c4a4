package utils

import (
	"crypto/sha256"
	"errors"
	"encoding/hex"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sigweihq/atomexplay/pkg/constants"
)

func CreateHTTPClientWithTimeouts() *http.Client {
	return &http.Client{
		Timeout: constants.APITimeout,
		Transport: &http.Transport{
			TLSHandshakeTimeout:   constants.TLSHandshakeTimeout,
			ResponseHeaderTimeout: constants.ResponseHeaderTimeout,
			ExpectContinueTimeout: constants.ExpectContinueTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // Disable redirects to prevent redirect-based SSRF
		},
	}
}

// loopbackHosts may be reached over plain HTTP, for local backends and test servers
var loopbackHosts = map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true}

// ValidateAPIURL checks that a trading backend URL is an absolute HTTPS URL without query or fragment.
// Plain HTTP is accepted for loopback hosts only.
func ValidateAPIURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return fmt.Errorf("API URL must be absolute: %q", rawURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("API URL must not carry a query or fragment: %s", rawURL)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if loopbackHosts[u.Hostname()] {
			return nil
		}
		return fmt.Errorf("API URL must use HTTPS: %s", rawURL)
	default:
		return fmt.Errorf("unsupported API URL scheme %q", u.Scheme)
	}
}

// SplitSymbol splits a trading pair such as "XTZ/ETH" into base and quote currencies
func SplitSymbol(symbol string) (string, string, error) {
	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || base == "" || quote == "" || strings.Contains(quote, "/") {
		return "", "", fmt.Errorf("invalid symbol %q, expected BASE/QUOTE", symbol)
	}
	return base, quote, nil
}

// GenerateSecret returns a random swap secret of constants.SecretLength characters
func GenerateSecret() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:constants.SecretLength]
}

// SecretHash returns sha256(sha256(secret)), the hash lock of a swap
func SecretHash(secret string) [32]byte {
	first := sha256.Sum256([]byte(secret))
	return sha256.Sum256(first[:])
}

// SecretHashHex returns the hex encoding of SecretHash
func SecretHashHex(secret string) string {
	hash := SecretHash(secret)
	return hex.EncodeToString(hash[:])
}

// ToBaseUnits converts a decimal amount to integer base units (wei, mutez), truncating extra precision
func ToBaseUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// ParseExpirationMinutes parses a lock duration in minutes.
// Non-numeric and non-positive input falls back to constants.DefaultExpirationMinutes,
// durations above constants.MaxExpirationMinutes are rejected.
func ParseExpirationMinutes(value string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(value))
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("expiration must be at most %d minutes", constants.MaxExpirationMinutes)
	}
	if err != nil || minutes <= 0 {
		return constants.DefaultExpirationMinutes, nil
	}
	if minutes > constants.MaxExpirationMinutes {
		return 0, fmt.Errorf("expiration must be at most %d minutes, got %d", constants.MaxExpirationMinutes, minutes)
	}
	return minutes, nil
}

// RefundTime returns the moment a swap initiated at swapTime becomes refundable
func RefundTime(swapTime time.Time, minutes int) (time.Time, error) {
	if minutes <= 0 || minutes > constants.MaxExpirationMinutes {
		return time.Time{}, fmt.Errorf("expiration must be between 1 and %d minutes, got %d", constants.MaxExpirationMinutes, minutes)
	}
	return swapTime.Add(time.Duration(minutes) * time.Minute), nil
}
