package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/go-chi/chi/v5"
)

const uploadField = "file"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user.View()})
}

func (s *Server) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.users.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if token != "" {
		// No mail delivery in development; the token goes to the log.
		s.logger.Info(r.Context(), "password reset requested", "email", req.Email, "token", token)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, a reset link has been sent"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())
	writeJSON(w, http.StatusOK, user.View())
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.ID, fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.View())
}

// entityName validates the {entity} path segment.
func (s *Server) entityName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(chi.URLParam(r, "entity"))
	if err := s.validate.Var(name, "required,max=64,printascii"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid entity name")
		return "", false
	}
	return name, true
}

func (s *Server) listEntities(w http.ResponseWriter, r *http.Request) {
	name, ok := s.entityName(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.entities.List(name))
}

func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	name, ok := s.entityName(w, r)
	if !ok {
		return
	}
	rec, err := s.entities.Get(name, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) createEntity(w http.ResponseWriter, r *http.Request) {
	name, ok := s.entityName(w, r)
	if !ok {
		return
	}
	var data map[string]any
	if err := decodeJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := s.entities.Create(name, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) updateEntity(w http.ResponseWriter, r *http.Request) {
	name, ok := s.entityName(w, r)
	if !ok {
		return
	}
	var data map[string]any
	if err := decodeJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := s.entities.Update(name, chi.URLParam(r, "id"), data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteEntity(w http.ResponseWriter, r *http.Request) {
	name, ok := s.entityName(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.entities.Delete(name, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	part, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing %q field", uploadField))
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	f := s.files.Save(header.Filename, mimeType, data)
	s.logger.Debug(r.Context(), "file stored", "file_id", f.ID, "size", len(data))

	writeJSON(w, http.StatusCreated, map[string]string{
		"file_url":  strings.TrimRight(s.cfg.PublicURL, "/") + "/api/files/" + f.ID,
		"file_id":   f.ID,
		"file_name": f.Name,
		"mime_type": f.MimeType,
	})
}

func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.files.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", f.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", f.Name))
	_, _ = w.Write(f.Data)
}
