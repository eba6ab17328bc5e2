package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/stepguard/internal/pkg/goerror"
)

type EnrollmentInput struct {
	Account string `json:"account" validate:"required,max=128"`
}

type EnrollmentOutput struct {
	Secret string
	URI    string
}

// Enrollment issues a fresh TOTP secret and its provisioning URI. Nothing is stored.
func (s *Usecase) Enrollment(ctx context.Context, in EnrollmentInput) (*EnrollmentOutput, error) {
	ctx, span := s.startSpan(ctx, "Enrollment")
	defer span.End()

	in.Account = strings.TrimSpace(in.Account)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &EnrollmentOutput{
		Secret: secret,
		URI:    s.totp.EnrollmentURI(secret, in.Account),
	}, nil
}

type EnrollmentVerifyInput struct {
	Secret string `json:"secret" validate:"required"`
	Code   string `json:"code" validate:"required,totp_code"`
}

type EnrollmentVerifyOutput struct {
	Valid bool
}

// EnrollmentVerify checks a code against a secret at the current time so a
// client can confirm its authenticator is set up.
func (s *Usecase) EnrollmentVerify(ctx context.Context, in EnrollmentVerifyInput) (*EnrollmentVerifyOutput, error) {
	_, span := s.startSpan(ctx, "EnrollmentVerify")
	defer span.End()

	in.Code = strings.TrimSpace(in.Code)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return &EnrollmentVerifyOutput{
		Valid: s.totp.Validate(in.Code, in.Secret, s.clock.Now()),
	}, nil
}
