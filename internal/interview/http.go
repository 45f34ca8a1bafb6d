// Copyright (c) 2026 PrepDeck. All rights reserved.

package interview

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/pkg/pagination"
)

// Handler exposes interview session management. Mounted behind RequireAuth.
type Handler struct {
	interviewService *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{interviewService: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)
	router.Post("/{id}/participants", handler.invite)

	return router
}

type createRequest struct {
	Title       string     `json:"title"`
	Kind        string     `json:"kind"`
	Difficulty  string     `json:"difficulty"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	interview, err := handler.interviewService.Create(request.Context(), userID, &Interview{
		Title:       input.Title,
		Kind:        Kind(input.Kind),
		Difficulty:  input.Difficulty,
		ScheduledAt: input.ScheduledAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, interview)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	interviews, total, err := handler.interviewService.ListMine(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, interviews, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	interview, err := handler.interviewService.Get(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, interview)
}

type updateRequest struct {
	Title      *string `json:"title"`
	Status     *string `json:"status"`
	Difficulty *string `json:"difficulty"`
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	var status *Status
	if input.Status != nil {
		converted := Status(*input.Status)
		status = &converted
	}

	interview, err := handler.interviewService.Update(request.Context(), userID, requestutil.Param(request, "id"), UpdateInput{
		Title:      input.Title,
		Status:     status,
		Difficulty: input.Difficulty,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, interview)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.interviewService.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

type inviteRequest struct {
	UserID string `json:"user_id"`
}

func (handler *Handler) invite(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input inviteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUserID, input.UserID).UUID(FieldUserID, input.UserID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.interviewService.Invite(request.Context(), ownerID, requestutil.Param(request, "id"), input.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
