// Copyright (c) 2026 PrepDeck. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/internal/users/auth"
)

// Handler implements the HTTP layer for profile management.
//
// # Security
//
// Every route here is mounted behind RequireAuth; handlers may assume a
// verified identity in the request context.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the account domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	return router
}

/*
GET /api/v1/users/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

/*
PATCH /api/v1/users/me.

Description: Applies partial updates to the authenticated user's profile.
Only the fields present in the payload are touched.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Email already in use
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(auth.FieldName, *input.Name).
			MaxLen(auth.FieldName, *input.Name, auth.MaxNameLength)
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).
			Email(auth.FieldEmail, *input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateSubscriptionRequest is the admin payload for tier changes.
type updateSubscriptionRequest struct {
	Plan     string `json:"plan"`
	IsActive bool   `json:"is_active"`
}

// AdminRoutes exposes subscription management, mounted behind RequireRole(admin).
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Put("/{userID}/subscription", handler.updateSubscription)
	return router
}

/*
PUT /api/v1/admin/users/{userID}/subscription.

Description: Replaces a user's subscription tier and activation state. Used
by operators and billing webhooks.

Response:
  - 200: User: The updated profile
  - 400: Validation: Unknown plan
  - 404: ErrNotFound: No such user
*/
func (handler *Handler) updateSubscription(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	var input updateSubscriptionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.OneOf("plan", input.Plan,
		string(sec.PlanFree), string(sec.PlanPremium), string(sec.PlanPro))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateSubscription(request.Context(), userID, auth.Subscription{
		Plan:     sec.SubscriptionPlan(input.Plan),
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
