// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusdir/internal/platform/middleware"
	requestutil "github.com/taibuivan/campusdir/internal/platform/request"
	"github.com/taibuivan/campusdir/internal/platform/respond"
	"github.com/taibuivan/campusdir/internal/platform/sec"
	"github.com/taibuivan/campusdir/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the institution identity endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] for the /institutions prefix.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Verifies credentials and returns a bearer token.
//   - GET  /current  : Returns the authenticated account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/current", handler.current)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *registerRequest) validate() error {
	v := &validate.Validator{}
	v.Required("name", r.Name).Length("name", r.Name, 2, 30)
	v.Required("email", r.Email).Email("email", r.Email)
	v.Required("password", r.Password).Length("password", r.Password, 6, 30)
	v.Custom("password", len(r.Password) > sec.MaxSecretBytes, passwordBytesMessage)
	return v.Err()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) validate() error {
	v := &validate.Validator{}
	v.Required("email", r.Email).Email("email", r.Email)
	v.Required("password", r.Password)
	return v.Err()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

/*
POST /api/v1/institutions/register.

Response:
  - 201: Account
  - 400: Validation failure
  - 409: DUPLICATE_CONTACT
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Email = strings.TrimSpace(input.Email)
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, account)
}

/*
POST /api/v1/institutions/login.

Response:
  - 200: tokenResponse
  - 400: Validation failure or BAD_CREDENTIALS
  - 404: ACCOUNT_NOT_FOUND
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Email = strings.TrimSpace(input.Email)
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
	})
}

// GET /api/v1/institutions/current.
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.authService.Current(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}
