package rest

import (
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/validation"
)

type avatarRequest struct {
	ContentType string `json:"content_type"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var in validation.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := s.users.Register(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var in validation.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := s.users.Login(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, subjectFrom(r.Context()))
}

func (s *HTTPServer) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	up, err := s.users.PrepareAvatarUpload(r.Context(), subjectFrom(r.Context()), req.ContentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, up)
}
