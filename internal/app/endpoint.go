package app

import (
	"github.com/shandysiswandi/stepguard/internal/pkg/goerror"
	"github.com/shandysiswandi/stepguard/internal/pkg/router"
)

type healthResponse struct{}

func (healthResponse) Message() string {
	return "OK"
}

type versionResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (a *App) registerAppEndpoints() {
	a.router.GET("/app/health-check", a.healthCheck)
	a.router.GET("/app/version", a.version)
}

func (a *App) healthCheck(*router.Request) (any, error) {
	if !a.ready.Load() {
		return nil, goerror.NewBusiness("service is not ready", goerror.CodeUnavailable)
	}
	return healthResponse{}, nil
}

func (a *App) version(*router.Request) (any, error) {
	return versionResponse{
		Name:    a.config.GetString("app.name"),
		Version: a.config.GetString("app.version"),
	}, nil
}
