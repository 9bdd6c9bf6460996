package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sketchgen/internal/domain"
	"sketchgen/internal/middleware"
	"sketchgen/internal/sketch"
)

// Index renders the empty form.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, a.newPage(domain.UserRequest{}))
}

// Generate runs the whole action synchronously and renders the outcome on the
// same page. The request blocks while the image job is polled.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderFailure(w, domain.UserRequest{}, http.StatusBadRequest, err)
		return
	}
	req := domain.UserRequest{Description: r.PostFormValue("description")}
	style, err := domain.ParseStyle(r.PostFormValue("style"))
	if err != nil {
		a.renderFailure(w, req, http.StatusBadRequest, err)
		return
	}
	req.Style = style
	if a.OrientationEnabled {
		orientation, err := domain.ParseOrientation(r.PostFormValue("orientation"))
		if err != nil {
			a.renderFailure(w, req, http.StatusBadRequest, err)
			return
		}
		req.Orientation = orientation
	}

	logger := a.Logger.With().Str("request_id", middleware.RequestIDFromContext(r.Context())).Logger()
	logger.Info().Str("style", string(req.Style)).Str("orientation", string(req.Orientation)).Msg("handlers: generate requested")

	res := a.Sketches.Generate(r.Context(), req)
	logger.Info().Str("outcome", string(res.Kind)).Int("attempts", res.Attempts).Msg("handlers: generate finished")

	page := a.newPage(req)
	page.Result = &res
	if res.Asset != nil {
		page.ImageURL = "/sketches/" + res.Asset.Token
		page.DownloadURL = "/sketches/" + res.Asset.Token + "/download"
	}
	a.render(w, http.StatusOK, page)
}

func (a *App) renderFailure(w http.ResponseWriter, req domain.UserRequest, status int, err error) {
	page := a.newPage(req)
	page.Result = &sketch.Result{
		Request: req,
		Kind:    domain.OutcomeOtherError,
		Notices: []sketch.Notice{{Level: sketch.LevelError, Text: sketch.GenericErrorMessage(err)}},
	}
	a.render(w, status, page)
}

// ViewSketch serves a staged image inline.
func (a *App) ViewSketch(w http.ResponseWriter, r *http.Request) {
	a.serveSketch(w, r, "inline")
}

// DownloadSketch serves a staged image as an attachment with a fixed name.
func (a *App) DownloadSketch(w http.ResponseWriter, r *http.Request) {
	a.serveSketch(w, r, "attachment")
}

func (a *App) serveSketch(w http.ResponseWriter, r *http.Request, disposition string) {
	token := chi.URLParam(r, "token")
	data, err := a.Sketches.Image(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "sketch not found")
			return
		}
		a.Logger.Error().Err(err).Str("token", token).Msg("handlers: read staged sketch failed")
		a.error(w, http.StatusInternalServerError, "download_failed", "could not load sketch")
		return
	}
	w.Header().Set("Content-Type", sketch.DownloadMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, sketch.DownloadFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
