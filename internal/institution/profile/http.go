// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/campusdir/internal/platform/middleware"
	requestutil "github.com/taibuivan/campusdir/internal/platform/request"
	"github.com/taibuivan/campusdir/internal/platform/respond"
)

// Handler implements the HTTP layer for institution profiles.
type Handler struct {
	profileService *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{profileService: service}
}

// Routes returns a [chi.Router] for the /profiles prefix.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public discovery
	router.Get("/all", handler.list)
	router.Get("/handle/{handle}", handler.getByHandle)
	router.Get("/institution/{accountID}", handler.getByAccount)

	// Owner operations
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", handler.getOwn)
		r.Post("/", handler.upsertOwn)
		r.Delete("/", handler.deleteOwn)

		r.Post("/courses", handler.addCourse)
		r.Delete("/courses/{courseID}", handler.removeCourse)
	})

	return router
}

// # Request Payloads

// upsertRequest is the flat profile write. Absent keys decode to nil and
// leave the stored value untouched.
type upsertRequest struct {
	Handle   *string `json:"handle"`
	Website  *string `json:"website"`
	Location *string `json:"location"`
	Schools  *string `json:"schools"` // comma-delimited
	YouTube  *string `json:"youtube"`
	Twitter  *string `json:"twitter"`
	Facebook *string `json:"facebook"`
	LinkedIn *string `json:"linkedin"`
}

func (r *upsertRequest) fields() Fields {
	fields := Fields{
		Handle:   r.Handle,
		Website:  r.Website,
		Location: r.Location,
		Social: SocialFields{
			YouTube:  r.YouTube,
			Twitter:  r.Twitter,
			Facebook: r.Facebook,
			LinkedIn: r.LinkedIn,
		},
	}
	if r.Schools != nil {
		fields.Schools = SplitSchools(*r.Schools)
	}
	return fields
}

type courseRequest struct {
	Degree      string `json:"degree"`
	Stream      string `json:"stream"`
	Description string `json:"description"`
}

// # Public Endpoints

// GET /api/v1/profiles/all.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.profileService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profiles)
}

/*
GET /api/v1/profiles/handle/{handle}.

Response:
  - 200: Profile
  - 404: PROFILE_NOT_FOUND
*/
func (handler *Handler) getByHandle(writer http.ResponseWriter, request *http.Request) {
	p, err := handler.profileService.GetByHandle(request.Context(), requestutil.Param(request, "handle"))
	writeProfile(writer, request, p, err)
}

// GET /api/v1/profiles/institution/{accountID}.
func (handler *Handler) getByAccount(writer http.ResponseWriter, request *http.Request) {
	p, err := handler.profileService.GetByAccount(request.Context(), requestutil.Param(request, "accountID"))
	writeProfile(writer, request, p, err)
}

// # Owner Endpoints

// GET /api/v1/profiles.
func (handler *Handler) getOwn(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.profileService.GetOwn(request.Context(), accountID)
	writeProfile(writer, request, p, err)
}

/*
POST /api/v1/profiles.

Description: Creates the caller's profile on the first call and merges
supplied fields on later calls.

Response:
  - 200: Profile
  - 400: VALIDATION_ERROR
  - 409: HANDLE_TAKEN
*/
func (handler *Handler) upsertOwn(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input upsertRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.profileService.UpsertOwn(request.Context(), accountID, input.fields())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, p)
}

// DELETE /api/v1/profiles. Removes the profile and the account.
func (handler *Handler) deleteOwn(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.profileService.DeleteOwn(request.Context(), accountID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// POST /api/v1/profiles/courses.
func (handler *Handler) addCourse(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input courseRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.profileService.AddCourse(request.Context(), accountID, CourseInput{
		Degree:      strings.TrimSpace(input.Degree),
		Stream:      strings.TrimSpace(input.Stream),
		Description: strings.TrimSpace(input.Description),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, p)
}

// DELETE /api/v1/profiles/courses/{courseID}.
func (handler *Handler) removeCourse(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.profileService.RemoveCourse(request.Context(), accountID, requestutil.Param(request, "courseID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, p)
}

func writeProfile(writer http.ResponseWriter, request *http.Request, p *Profile, err error) {
	switch {
	case err != nil:
		respond.Error(writer, request, err)
	case p == nil:
		respond.Error(writer, request, ErrProfileNotFound)
	default:
		respond.OK(writer, p)
	}
}
