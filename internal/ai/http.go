// Copyright (c) 2026 PrepDeck. All rights reserved.

package ai

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
)

// Handler exposes the AI features. Mounted behind RequireAuth and
// RequirePlan(premium): these endpoints are the paid surface.
type Handler struct {
	generator   Generator
	interviewer Interviewer
}

func NewHandler(generator Generator, interviewer Interviewer) *Handler {
	return &Handler{
		generator:   generator,
		interviewer: interviewer,
	}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/generate", handler.generate)
	router.Post("/mock-interview", handler.mockInterview)

	return router
}

func (handler *Handler) generate(writer http.ResponseWriter, request *http.Request) {
	var input GenerateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("topic", input.Topic).MaxLen("topic", input.Topic, 200)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	question, err := handler.generator.Generate(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

func (handler *Handler) mockInterview(writer http.ResponseWriter, request *http.Request) {
	var input InterviewTurn
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("message", input.Message)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.interviewer.Reply(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reply)
}
