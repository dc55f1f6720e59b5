package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tsoares/amigo-secreto/internal/auth"
	"github.com/tsoares/amigo-secreto/internal/middleware"
	"github.com/tsoares/amigo-secreto/internal/service"
	"github.com/tsoares/amigo-secreto/internal/storage"
)

// Handler holds the HTTP handlers for the group endpoints.
type Handler struct {
	svc      *service.GroupService
	validate *validator.Validate
}

// NewHandler creates a Handler backed by the given service.
func NewHandler(svc *service.GroupService) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// CreateGroup handles POST /api/groups
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	group, token, err := h.svc.CreateGroup(r.Context(), req.Name, req.Participants)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, CreateGroupResponse{
		Group:      toGroupResponse(group),
		AdminToken: token,
		SharePath:  fmt.Sprintf("/api/groups/%s", group.ID),
	})
}

// GetGroup handles GET /api/groups/{groupID}
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, toGroupResponse(group))
}

// Confirm handles POST /api/groups/{groupID}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Confirm(r.Context(), chi.URLParam(r, "groupID"), req.Participant, req.Password); err != nil {
		h.writeServiceError(w, err)
		return
	}

	group, err := h.svc.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, toGroupResponse(group))
}

// Draw handles POST /api/groups/{groupID}/draw (admin only)
func (h *Handler) Draw(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.Draw(r.Context(), middleware.AdminGroupID(r.Context()))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, toGroupResponse(group))
}

// Reveal handles POST /api/groups/{groupID}/reveal
func (h *Handler) Reveal(w http.ResponseWriter, r *http.Request) {
	var req RevealRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	friend, err := h.svc.Reveal(r.Context(), chi.URLParam(r, "groupID"), req.Participant, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, RevealResponse{SecretFriend: friend})
}

// DeleteGroup handles DELETE /api/groups/{groupID} (admin only)
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGroup(r.Context(), middleware.AdminGroupID(r.Context())); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps service and auth errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrGroupNotFound),
		errors.Is(err, service.ErrUnknownParticipant):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrEmptyGroupName),
		errors.Is(err, service.ErrTooFewParticipants),
		errors.Is(err, service.ErrDuplicateParticipant),
		errors.Is(err, auth.ErrWeakPassword):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, auth.ErrWrongPassword):
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrAlreadyDrawn),
		errors.Is(err, service.ErrNotDrawn),
		errors.Is(err, service.ErrNotConfirmed):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrNotAllConfirmed):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, err.Error())

	default:
		slog.Error("Unhandled service error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}
