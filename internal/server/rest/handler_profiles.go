package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/validation"
	"github.com/gorilla/mux"
)

// writeProfile writes the result of a profile operation.
func (s *HTTPServer) writeProfile(w http.ResponseWriter, r *http.Request, p *models.Profile, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetOwn(r.Context(), subjectFrom(r.Context()).ID)
	s.writeProfile(w, r, p, err)
}

func (s *HTTPServer) upsertProfile(w http.ResponseWriter, r *http.Request) {
	var in validation.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := s.profiles.Upsert(r.Context(), subjectFrom(r.Context()).ID, in)
	s.writeProfile(w, r, p, err)
}

func (s *HTTPServer) deleteAccount(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())
	if err := s.profiles.DeleteAccount(r.Context(), subject.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Account deleted", "user_id", subject.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *HTTPServer) listProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := s.profiles.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) getProfileByHandle(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetByHandle(r.Context(), mux.Vars(r)["handle"])
	s.writeProfile(w, r, p, err)
}

func (s *HTTPServer) getProfileByUser(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.GetByUserID(r.Context(), mux.Vars(r)["user_id"])
	s.writeProfile(w, r, p, err)
}

func (s *HTTPServer) addExperience(w http.ResponseWriter, r *http.Request) {
	var in validation.ExperienceInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := s.profiles.AddExperience(r.Context(), subjectFrom(r.Context()).ID, in)
	s.writeProfile(w, r, p, err)
}

func (s *HTTPServer) removeExperience(w http.ResponseWriter, r *http.Request) {
	s.removeSubRecord(w, r, "exp_id", s.profiles.RemoveExperience)
}

func (s *HTTPServer) addEducation(w http.ResponseWriter, r *http.Request) {
	var in validation.EducationInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := s.profiles.AddEducation(r.Context(), subjectFrom(r.Context()).ID, in)
	s.writeProfile(w, r, p, err)
}

func (s *HTTPServer) removeEducation(w http.ResponseWriter, r *http.Request) {
	s.removeSubRecord(w, r, "edu_id", s.profiles.RemoveEducation)
}

func (s *HTTPServer) removeSubRecord(w http.ResponseWriter, r *http.Request, param string,
	remove func(ctx context.Context, ownerID, id string) (*models.Profile, error)) {
	p, err := remove(r.Context(), subjectFrom(r.Context()).ID, mux.Vars(r)[param])
	s.writeProfile(w, r, p, err)
}
