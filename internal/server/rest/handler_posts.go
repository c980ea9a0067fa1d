package rest

import (
	"net/http"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
	"github.com/dmitrijs2005/devconnector/internal/validation"
	"github.com/gorilla/mux"
)

func (s *HTTPServer) writePost(w http.ResponseWriter, r *http.Request, p *models.Post, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *HTTPServer) listPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.posts.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) createPost(w http.ResponseWriter, r *http.Request) {
	var in validation.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := s.posts.Create(r.Context(), subjectFrom(r.Context()), in)
	s.writePost(w, r, p, err)
}

func (s *HTTPServer) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.posts.Get(r.Context(), mux.Vars(r)["id"])
	s.writePost(w, r, p, err)
}

func (s *HTTPServer) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.Delete(r.Context(), subjectFrom(r.Context()).ID, mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *HTTPServer) likePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.posts.Like(r.Context(), subjectFrom(r.Context()).ID, mux.Vars(r)["id"])
	s.writePost(w, r, p, err)
}

func (s *HTTPServer) unlikePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.posts.Unlike(r.Context(), subjectFrom(r.Context()).ID, mux.Vars(r)["id"])
	s.writePost(w, r, p, err)
}

func (s *HTTPServer) commentPost(w http.ResponseWriter, r *http.Request) {
	var in validation.PostInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := s.posts.Comment(r.Context(), subjectFrom(r.Context()), mux.Vars(r)["id"], in)
	s.writePost(w, r, p, err)
}

func (s *HTTPServer) deleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	p, err := s.posts.DeleteComment(r.Context(), subjectFrom(r.Context()).ID, vars["id"], vars["comment_id"])
	s.writePost(w, r, p, err)
}
