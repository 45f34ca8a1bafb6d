// Copyright (c) 2026 PrepDeck. All rights reserved.

package question

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/pkg/pagination"
)

// Handler exposes the question banks.
//
// Member routes strip answers and are mounted behind RequireAuth; the admin
// routes (mounted behind RequireRole(admin)) operate on the full item.
type Handler struct {
	questionService *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{questionService: service}
}

// Routes is the member-facing, read-only surface.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{bank}", handler.list)
	router.Get("/{bank}/{slug}", handler.get)

	return router
}

// AdminRoutes is the write surface, answer included on reads.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/{bank}/{slug}", handler.getWithAnswer)
	router.Put("/{bank}/{slug}", handler.update)
	router.Delete("/{bank}/{slug}", handler.remove)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	questions, total, err := handler.questionService.List(
		request.Context(),
		Bank(requestutil.Param(request, "bank")),
		params.Limit,
		params.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, questions, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	question, err := handler.questionService.Get(
		request.Context(),
		Bank(requestutil.Param(request, "bank")),
		requestutil.Param(request, "slug"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

type questionRequest struct {
	Bank       string   `json:"bank"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Choices    []string `json:"choices"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input questionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	question, err := handler.questionService.Create(request.Context(), &Question{
		Bank:       Bank(input.Bank),
		Title:      input.Title,
		Body:       input.Body,
		Choices:    input.Choices,
		Answer:     input.Answer,
		Difficulty: input.Difficulty,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, question)
}

func (handler *Handler) getWithAnswer(writer http.ResponseWriter, request *http.Request) {
	question, err := handler.questionService.GetWithAnswer(
		request.Context(),
		Bank(requestutil.Param(request, "bank")),
		requestutil.Param(request, "slug"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input questionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	question, err := handler.questionService.Update(
		request.Context(),
		Bank(requestutil.Param(request, "bank")),
		requestutil.Param(request, "slug"),
		&Question{
			Title:      input.Title,
			Body:       input.Body,
			Choices:    input.Choices,
			Answer:     input.Answer,
			Difficulty: input.Difficulty,
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, question)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	err := handler.questionService.Delete(
		request.Context(),
		Bank(requestutil.Param(request, "bank")),
		requestutil.Param(request, "slug"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
