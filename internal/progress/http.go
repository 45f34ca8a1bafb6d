// Copyright (c) 2026 PrepDeck. All rights reserved.

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/pkg/pagination"
)

// Handler exposes progress recording. Mounted behind RequireAuth.
type Handler struct {
	progressService *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{progressService: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.record)

	return router
}

type recordRequest struct {
	InterviewID *string `json:"interview_id"`
	Category    string  `json:"category"`
	Score       int     `json:"score"`
	Notes       string  `json:"notes"`
}

func (handler *Handler) record(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input recordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entry, err := handler.progressService.Record(request.Context(), userID, &Entry{
		InterviewID: input.InterviewID,
		Category:    input.Category,
		Score:       input.Score,
		Notes:       input.Notes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	entries, total, err := handler.progressService.ListMine(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}
