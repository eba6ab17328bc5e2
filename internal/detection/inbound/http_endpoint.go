package inbound

import (
	"github.com/shandysiswandi/stepguard/internal/detection/usecase"
	"github.com/shandysiswandi/stepguard/internal/pkg/router"
)

// HTTPEndpoint exposes the detection and enrollment handlers.
type HTTPEndpoint struct {
	uc uc
}

// Detect classifies a transaction and returns the step-up verdict.
// Every verdict, including a block, is a 200 response.
func (h *HTTPEndpoint) Detect(r *router.Request) (any, error) {
	var req DetectRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	in := usecase.DetectInput{
		RequestID:       req.ID,
		DetectorName:    req.DetectorName,
		ChainID:         req.ChainID,
		Hash:            req.Hash,
		ProtocolName:    req.ProtocolName,
		ProtocolAddress: req.ProtocolAddress,
		Trace: usecase.TraceInput{
			From:  req.Trace.From,
			To:    req.Trace.To,
			Value: req.Trace.Value,
			Logs:  make([]usecase.LogInput, 0, len(req.Trace.Logs)),
			Calls: make([]usecase.CallInput, 0, len(req.Trace.Calls)),
		},
	}
	for _, l := range req.Trace.Logs {
		in.Trace.Logs = append(in.Trace.Logs, usecase.LogInput{Address: l.Address})
	}
	for _, c := range req.Trace.Calls {
		in.Trace.Calls = append(in.Trace.Calls, usecase.CallInput(c))
	}
	if req.AdditionalData != nil {
		in.TwoFactorCode = req.AdditionalData.TwoFactorCode
		in.UserSecret = req.AdditionalData.UserSecret
	}

	resp, err := h.uc.Detect(r.Context(), in)
	if err != nil {
		return nil, err
	}

	return DetectResponse{
		RequestID:       resp.RequestID,
		ChainID:         resp.ChainID,
		ProtocolName:    resp.ProtocolName,
		ProtocolAddress: resp.ProtocolAddress,
		RequiresStepUp:  resp.Verdict.RequiresStepUp,
		Blocked:         resp.Verdict.Blocked,
		Errored:         resp.Verdict.Errored,
		Message:         resp.Verdict.Message,
	}, nil
}

// Enrollment issues a new TOTP secret for an account.
func (h *HTTPEndpoint) Enrollment(r *router.Request) (any, error) {
	var req EnrollmentRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Enrollment(r.Context(), usecase.EnrollmentInput{Account: req.Account})
	if err != nil {
		return nil, err
	}

	return EnrollmentResponse{
		Secret:          resp.Secret,
		ProvisioningURI: resp.URI,
	}, nil
}

func (h *HTTPEndpoint) EnrollmentVerify(r *router.Request) (any, error) {
	var req EnrollmentVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.EnrollmentVerify(r.Context(), usecase.EnrollmentVerifyInput{
		Secret: req.Secret,
		Code:   req.Code,
	})
	if err != nil {
		return nil, err
	}

	return EnrollmentVerifyResponse{Valid: resp.Valid}, nil
}
