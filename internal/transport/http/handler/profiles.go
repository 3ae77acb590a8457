package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/momentum-app/momentum-api/internal/application/profile"
	"github.com/momentum-app/momentum-api/internal/domain"
)

// maxPictureSize caps profile picture uploads at 10 MiB.
const maxPictureSize = 10 << 20

// ProfileHandler handles profile CRUD and picture endpoints.
type ProfileHandler struct {
	svc profile.Service
	log zerolog.Logger
}

func NewProfileHandler(svc profile.Service, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: log}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Msg("create profile failed")
		if errors.Is(err, domain.ErrConflict) {
			writeError(w, http.StatusConflict, "Username already taken")
			return
		}
		writeDomainError(w, err, "User profile not found")
		return
	}
	writeJSON(w, http.StatusCreated, CreateProfileEnvelope{Message: "Profile created", ID: p.UserID})
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	p, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("get profile failed")
		writeDomainError(w, err, "User profile not found")
		return
	}
	writeJSON(w, http.StatusOK, toProfileView(p))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Update(r.Context(), userID, req); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("update profile failed")
		writeDomainError(w, err, "User profile not found")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "User profile updated successfully"})
}

func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPictureSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	f, hdr, err := r.FormFile("profilePic")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Profile picture file is required")
		return
	}
	defer f.Close()

	if err := h.svc.UploadPicture(r.Context(), userID, f, hdr.Header.Get("Content-Type")); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("upload picture failed")
		writeDomainError(w, err, "User profile not found")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Profile picture uploaded successfully"})
}

func (h *ProfileHandler) GetPicture(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	rc, err := h.svc.DownloadPicture(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("download picture failed")
		writeDomainError(w, err, "Profile picture not found")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("streaming picture failed")
	}
}
