package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/stepguard/internal/detection/entity"
	"github.com/shandysiswandi/stepguard/internal/detection/usecase"
	"github.com/shandysiswandi/stepguard/internal/pkg/config"
	"github.com/shandysiswandi/stepguard/internal/pkg/goerror"
	"github.com/shandysiswandi/stepguard/internal/pkg/instrument"
	"github.com/shandysiswandi/stepguard/internal/pkg/router"
	"github.com/shandysiswandi/stepguard/internal/pkg/uid"
	"github.com/shandysiswandi/stepguard/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detectPayload = `{
  "id": "unique-id",
  "detectorName": "test-detector",
  "chainId": 1,
  "hash": "some hash",
  "protocolName": "some protocol",
  "protocolAddress": "0x0000000000000000000000000000000000000000",
  "trace": {
    "blockNumber": 12345,
    "from": "0xfdD055Cf3EaD343AD51f4C7d1F12558c52BaDFA5",
    "to": "0xfdD055Cf3EaD343AD51f4C7d1F12558c52BaDFA5",
    "transactionHash": "some hash",
    "input": "input",
    "output": "output",
    "gas": "100000",
    "gasUsed": "100",
    "value": "2000000000000000000",
    "pre": {"0x0000000000000000000000000000000000000000": {"balance": "0x..", "nonce": 2}},
    "post": {"0x0000000000000000000000000000000000000000": {"balance": "0x.."}},
    "logs": [{"address": "0xfdD055Cf3EaD343AD51f4C7d1F12558c52BaDFA5", "data": "0x...", "topics": ["0x..."]}],
    "calls": [{"from": "0xfdD055Cf3EaD343AD51f4C7d1F12558c52BaDFA5", "to": "0xfdD055Cf3EaD343AD51f4C7d1F12558c52BaDFA5", "input": "input", "output": "output", "gasUsed": "100", "value": "10"}]
  },
  "additionalData": {"twoFactorCode": "123456", "userSecret": "JBSWY3DPEHPK3PXP"}
}`

type fakeUC struct {
	detectIn  usecase.DetectInput
	detectOut *usecase.DetectOutput
	enrollIn  usecase.EnrollmentInput
	verifyIn  usecase.EnrollmentVerifyInput
	err       error
}

func (f *fakeUC) Detect(_ context.Context, in usecase.DetectInput) (*usecase.DetectOutput, error) {
	f.detectIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.detectOut, nil
}

func (f *fakeUC) Enrollment(_ context.Context, in usecase.EnrollmentInput) (*usecase.EnrollmentOutput, error) {
	f.enrollIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.EnrollmentOutput{Secret: "SECRET", URI: "otpauth://totp/Venn2FA:alice?secret=SECRET&issuer=Venn2FA"}, nil
}

func (f *fakeUC) EnrollmentVerify(_ context.Context, in usecase.EnrollmentVerifyInput) (*usecase.EnrollmentVerifyOutput, error) {
	f.verifyIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.EnrollmentVerifyOutput{Valid: true}, nil
}

func newServer(t *testing.T, fake *fakeUC) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("instrument:\n  log_mask_fields: [usersecret, twofactorcode, secret]\n"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, fake)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestDetect_MapsRequestAndVerdict(t *testing.T) {
	fake := &fakeUC{detectOut: &usecase.DetectOutput{
		RequestID:       "unique-id",
		ChainID:         1,
		ProtocolName:    "some protocol",
		ProtocolAddress: "0x0000000000000000000000000000000000000000",
		Verdict:         entity.Verdict{RequiresStepUp: true, Blocked: true, Message: entity.MessageInvalidCode},
	}}
	r := newServer(t, fake)

	rec, body := do(r, http.MethodPost, "/detect", detectPayload)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"requestId":       "unique-id",
		"chainId":         float64(1),
		"protocolName":    "some protocol",
		"protocolAddress": "0x0000000000000000000000000000000000000000",
		"requiresStepUp":  true,
		"blocked":         true,
		"errored":         false,
		"message":         "invalid code",
	}, body["data"])

	in := fake.detectIn
	assert.Equal(t, "unique-id", in.RequestID)
	assert.Equal(t, "test-detector", in.DetectorName)
	assert.Equal(t, "2000000000000000000", in.Trace.Value)
	assert.Equal(t, "0xfdD055Cf3EaD343AD51f4C7d1F12558c52BaDFA5", in.Trace.From)
	require.Len(t, in.Trace.Logs, 1)
	require.Len(t, in.Trace.Calls, 1)
	assert.Equal(t, "100", in.Trace.Calls[0].GasUsed)
	assert.Equal(t, "123456", in.TwoFactorCode)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", in.UserSecret)
}

func TestDetect_WithoutAdditionalData(t *testing.T) {
	fake := &fakeUC{detectOut: &usecase.DetectOutput{Verdict: entity.Verdict{Message: entity.MessageNotRequired}}}
	r := newServer(t, fake)

	payload := strings.Replace(detectPayload, `"additionalData": {"twoFactorCode": "123456", "userSecret": "JBSWY3DPEHPK3PXP"}`, `"additionalData": null`, 1)
	rec, _ := do(r, http.MethodPost, "/detect", payload)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fake.detectIn.TwoFactorCode)
	assert.Empty(t, fake.detectIn.UserSecret)
}

func TestDetect_MalformedBody(t *testing.T) {
	r := newServer(t, &fakeUC{})

	rec, body := do(r, http.MethodPost, "/detect", `{"id":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestDetect_ValidationError(t *testing.T) {
	r := newServer(t, &fakeUC{err: goerror.NewInvalidInput(validator.V10ValidationError{
		"trace.from":            "from must be a valid address",
		"trace.logs[0].address": "address must be a valid address",
	})})

	rec, body := do(r, http.MethodPost, "/detect", detectPayload)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "trace.from")
	assert.Contains(t, fields, "trace.logs[0].address")
}

func TestEnrollment(t *testing.T) {
	fake := &fakeUC{}
	r := newServer(t, fake)

	rec, body := do(r, http.MethodPost, "/api/v1/detection/enrollment", `{"account":"alice"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", fake.enrollIn.Account)
	assert.Equal(t, map[string]any{
		"secret":          "SECRET",
		"provisioningUri": "otpauth://totp/Venn2FA:alice?secret=SECRET&issuer=Venn2FA",
	}, body["data"])
}

func TestEnrollmentVerify(t *testing.T) {
	fake := &fakeUC{}
	r := newServer(t, fake)

	rec, body := do(r, http.MethodPost, "/api/v1/detection/enrollment/verify", `{"secret":"SECRET","code":"123456"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.EnrollmentVerifyInput{Secret: "SECRET", Code: "123456"}, fake.verifyIn)
	assert.Equal(t, map[string]any{"valid": true}, body["data"])
}
