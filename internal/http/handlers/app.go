package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"sketchgen/internal/domain"
	"sketchgen/internal/infra"
	"sketchgen/internal/sketch"
)

// Generator runs a generate action and serves staged images.
type Generator interface {
	Generate(ctx context.Context, req domain.UserRequest) sketch.Result
	Image(ctx context.Context, token string) ([]byte, error)
}

// App holds the dependencies shared by every handler.
type App struct {
	Sketches           Generator
	Logger             infra.Logger
	OrientationEnabled bool
}

// NewApp wires the handlers.
func NewApp(gen Generator, logger infra.Logger, orientationEnabled bool) *App {
	return &App{Sketches: gen, Logger: logger, OrientationEnabled: orientationEnabled}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
