package otp

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 6238 appendix B SHA1 seed ("12345678901234567890").
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func newTestTOTP() *TOTP {
	return NewTOTP(Config{Issuer: "Venn2FA"})
}

func TestNewTOTP_Defaults(t *testing.T) {
	o := NewTOTP(Config{Digits: otp.Digits(7)})

	assert.Equal(t, uint(30), o.opts.Period)
	assert.Equal(t, uint(1), o.opts.Skew)
	assert.Equal(t, otp.DigitsSix, o.opts.Digits)
	assert.Equal(t, otp.AlgorithmSHA1, o.opts.Algorithm)
}

func TestGenerateSecret(t *testing.T) {
	o := newTestTOTP()

	secret, err := o.GenerateSecret()
	require.NoError(t, err)

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, raw, SecretSize)

	other, err := o.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestGenerateCode_RFC6238Vectors(t *testing.T) {
	o := newTestTOTP()

	tests := []struct {
		unix int64
		want string
	}{
		{unix: 59, want: "287082"},
		{unix: 1111111109, want: "081804"},
		{unix: 1234567890, want: "005924"},
		{unix: 2000000000, want: "279037"},
	}

	for _, tt := range tests {
		code, err := o.GenerateCode(rfcSecret, time.Unix(tt.unix, 0).UTC())
		require.NoError(t, err)
		assert.Equal(t, tt.want, code, "unix=%d", tt.unix)
	}
}

func TestValidate_RoundTrip(t *testing.T) {
	o := newTestTOTP()
	at := time.Date(2026, 10, 19, 12, 0, 15, 0, time.UTC)

	for i := 0; i < 10; i++ {
		secret, err := o.GenerateSecret()
		require.NoError(t, err)

		code, err := o.GenerateCode(secret, at)
		require.NoError(t, err)
		assert.True(t, o.Validate(code, secret, at))
	}
}

func TestValidate_ToleranceWindow(t *testing.T) {
	o := newTestTOTP()
	at := time.Date(2026, 10, 19, 12, 0, 15, 0, time.UTC)

	previous, err := o.GenerateCode(rfcSecret, at.Add(-30*time.Second))
	require.NoError(t, err)
	next, err := o.GenerateCode(rfcSecret, at.Add(30*time.Second))
	require.NoError(t, err)
	stale, err := o.GenerateCode(rfcSecret, at.Add(-60*time.Second))
	require.NoError(t, err)
	future, err := o.GenerateCode(rfcSecret, at.Add(60*time.Second))
	require.NoError(t, err)

	assert.True(t, o.Validate(previous, rfcSecret, at))
	assert.True(t, o.Validate(next, rfcSecret, at))

	window := map[string]struct{}{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		c, err := o.GenerateCode(rfcSecret, at.Add(d))
		require.NoError(t, err)
		window[c] = struct{}{}
	}
	if _, inWindow := window[stale]; !inWindow {
		assert.False(t, o.Validate(stale, rfcSecret, at))
	}
	if _, inWindow := window[future]; !inWindow {
		assert.False(t, o.Validate(future, rfcSecret, at))
	}
}

func TestValidate_RejectsWrongCode(t *testing.T) {
	o := newTestTOTP()
	at := time.Date(2026, 10, 19, 12, 0, 15, 0, time.UTC)

	secret, err := o.GenerateSecret()
	require.NoError(t, err)

	valid := map[string]struct{}{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		c, err := o.GenerateCode(secret, at.Add(d))
		require.NoError(t, err)
		valid[c] = struct{}{}
	}

	if _, ok := valid["000000"]; !ok {
		assert.False(t, o.Validate("000000", secret, at))
	}
}

func TestValidate_FailsClosed(t *testing.T) {
	o := newTestTOTP()
	at := time.Unix(59, 0).UTC()

	tests := []struct {
		name   string
		code   string
		secret string
	}{
		{name: "malformed secret", code: "287082", secret: "not-base32!!"},
		{name: "empty secret", code: "287082", secret: ""},
		{name: "short code", code: "28708", secret: rfcSecret},
		{name: "long code", code: "2870820", secret: rfcSecret},
		{name: "empty code", code: "", secret: rfcSecret},
		{name: "non numeric code", code: "abcdef", secret: rfcSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, o.Validate(tt.code, tt.secret, at))
			})
		})
	}
}

func TestValidate_AcceptsHumanFormattedSecret(t *testing.T) {
	o := newTestTOTP()
	at := time.Unix(59, 0).UTC()

	assert.True(t, o.Validate("287082", strings.ToLower("GEZD GNBV GY3T QOJQ GEZD GNBV GY3T QOJQ"), at))
}

func TestBuildEnrollmentURI(t *testing.T) {
	account := "0x1234567890123456789012345678901234567890"

	uri := BuildEnrollmentURI(rfcSecret, account, "Venn2FA")

	assert.Equal(t, "otpauth://totp/Venn2FA:"+account+"?secret="+rfcSecret+"&issuer=Venn2FA", uri)

	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "totp", key.Type())
	assert.Equal(t, "Venn2FA", key.Issuer())
	assert.Equal(t, account, key.AccountName())
	assert.Equal(t, rfcSecret, key.Secret())
}

func TestBuildEnrollmentURI_EscapesLabels(t *testing.T) {
	uri := BuildEnrollmentURI(rfcSecret, "alice smith", "Acme Co")

	assert.Equal(t, "otpauth://totp/Acme%20Co:alice%20smith?secret="+rfcSecret+"&issuer=Acme+Co", uri)

	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", key.Issuer())
	assert.Equal(t, "alice smith", key.AccountName())
}

func TestEnrollmentURI_UsesConfiguredIssuer(t *testing.T) {
	o := newTestTOTP()

	assert.True(t, strings.HasPrefix(o.EnrollmentURI(rfcSecret, "bob"), "otpauth://totp/Venn2FA:bob?"))
}
