// Copyright (c) 2026 PrepDeck. All rights reserved.

package execution

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
)

// maxSourceLen caps submission size well below the body-size limit so the
// error names the field instead of the transport.
const maxSourceLen = 65536

// Handler exposes coding-question execution. Mounted behind RequireAuth.
type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.run)

	return router
}

func (handler *Handler) run(writer http.ResponseWriter, request *http.Request) {
	var input RunRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("language", input.Language).
		Required("source", input.Source).
		MaxLen("source", input.Source, maxSourceLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.runner.Run(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}
