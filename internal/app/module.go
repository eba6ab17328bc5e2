package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/stepguard/internal/detection"
)

func (a *App) initModules() {
	a.registerAppEndpoints()

	if err := detection.New(detection.Dependency{
		Goroutine:  a.goroutine,
		Router:     a.router,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Clock:      a.clock,
		Totp:       a.totp,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module detection", "error", err)
		os.Exit(1)
	}
}
