package inbound

import (
	"context"

	"github.com/shandysiswandi/stepguard/internal/detection/usecase"
	"github.com/shandysiswandi/stepguard/internal/pkg/router"
)

type uc interface {
	Detect(ctx context.Context, in usecase.DetectInput) (*usecase.DetectOutput, error)
	Enrollment(ctx context.Context, in usecase.EnrollmentInput) (*usecase.EnrollmentOutput, error)
	EnrollmentVerify(ctx context.Context, in usecase.EnrollmentVerifyInput) (*usecase.EnrollmentVerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/detect", end.Detect)

	// TOTP enrollment
	r.POST("/api/v1/detection/enrollment", end.Enrollment)
	r.POST("/api/v1/detection/enrollment/verify", end.EnrollmentVerify)
}
