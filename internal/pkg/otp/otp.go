package otp

import (
	"crypto/rand"
	"encoding/base32"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// SecretSize is the number of random bytes in a generated secret (160 bits, RFC 4226).
const SecretSize = 20

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// OTP defines the contract for TOTP operations.
type OTP interface {
	// GenerateSecret creates a new random base32 secret.
	GenerateSecret() (string, error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) bool
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
	// EnrollmentURI returns the provisioning URI for account under the configured issuer.
	EnrollmentURI(secret, account string) string
}

// Config holds TOTP parameters. Zero values fall back to RFC 6238 defaults.
type Config struct {
	Issuer string
	Period uint
	Skew   uint
	Digits otp.Digits
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	opts   totp.ValidateOpts
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period, and a zero skew means one step either side.
func NewTOTP(cfg Config) *TOTP {
	if cfg.Digits != otp.DigitsSix && cfg.Digits != otp.DigitsEight {
		cfg.Digits = otp.DigitsSix
	}

	if cfg.Period == 0 {
		cfg.Period = 30
	}

	if cfg.Skew == 0 {
		cfg.Skew = 1
	}

	return &TOTP{
		issuer: cfg.Issuer,
		opts: totp.ValidateOpts{
			Period:    cfg.Period,
			Skew:      cfg.Skew,
			Digits:    cfg.Digits,
			Algorithm: otp.AlgorithmSHA1,
		},
	}
}

// GenerateSecret returns a base32 encoded secret of SecretSize random bytes.
func (o *TOTP) GenerateSecret() (string, error) {
	buf := make([]byte, SecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return b32NoPadding.EncodeToString(buf), nil
}

// Validate checks whether a code is valid at the given time.
//
// The library compares codes in constant time. Malformed secrets, wrong code
// lengths and any other error all report false.
func (o *TOTP) Validate(code, secret string, at time.Time) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	rv, err := totp.ValidateCustom(strings.TrimSpace(code), normalizeSecret(secret), at, o.opts)

	return rv && err == nil
}

// GenerateCode creates a TOTP code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(normalizeSecret(secret), at, o.opts)
}

// EnrollmentURI returns the provisioning URI for account under the configured issuer.
func (o *TOTP) EnrollmentURI(secret, account string) string {
	return BuildEnrollmentURI(secret, account, o.issuer)
}

// BuildEnrollmentURI formats an otpauth provisioning URI:
//
//	otpauth://totp/<issuer>:<account>?secret=<secret>&issuer=<issuer>
func BuildEnrollmentURI(secret, account, issuer string) string {
	label := url.PathEscape(issuer) + ":" + url.PathEscape(account)

	var b strings.Builder
	b.WriteString("otpauth://totp/")
	b.WriteString(label)
	b.WriteString("?secret=")
	b.WriteString(url.QueryEscape(secret))
	b.WriteString("&issuer=")
	b.WriteString(url.QueryEscape(issuer))

	return b.String()
}

// normalizeSecret accepts secrets typed by humans: lower case, spaces and padding.
func normalizeSecret(secret string) string {
	secret = strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	return strings.TrimRight(secret, "=")
}
