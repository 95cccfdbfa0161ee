package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"billsplit/internal/core"
)

const rosterCacheKey = "roster"

// cachedNames returns the roster, serving from the LRU cache when fresh.
func (s *Server) cachedNames(ctx context.Context) ([]string, error) {
	if names, found := s.rosterCache.Get(rosterCacheKey); found {
		slog.DebugContext(ctx, "Roster cache hit", "count", len(names))
		result := make([]string, len(names))
		copy(result, names)
		return result, nil
	}

	if s.nameReader == nil {
		return nil, nil
	}

	// Small timeout to avoid hanging partials
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	names, err := s.nameReader.Names(cctx)
	if err != nil {
		return nil, err
	}

	s.rosterCache.Set(rosterCacheKey, names)
	slog.DebugContext(ctx, "Roster cached", "count", len(names))
	return names, nil
}

func (s *Server) invalidateRoster() {
	s.rosterCache.Delete(rosterCacheKey)
}

// handlePeople serves the roster partial on GET and appends a person on POST.
func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPeople(w, r)
	case http.MethodPost:
		s.handleAddPerson(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	names, err := s.cachedNames(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Roster list error", "error", err)
		InternalServerError("Failed to load people").Write(w)
		return
	}

	body, renderErr := s.renderPeopleOptions(names)
	if renderErr != nil {
		slog.ErrorContext(r.Context(), "People template execution failed", "error", renderErr)
		InternalServerError("Failed to render people").Write(w)
		return
	}

	NewHTMXResponse().BodyHTML(body).Write(w)
}

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	if s.nameWriter == nil {
		ErrorResponse(http.StatusServiceUnavailable, "Roster is read-only").Write(w)
		return
	}

	name := sanitizeInput(r.Form.Get("person_name"))

	ref, err := s.nameWriter.Add(r.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrEmptyName) || errors.Is(err, core.ErrNameTooLong) || errors.Is(err, core.ErrDuplicateName) {
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Person append error", "error", err, "person_name", name)
		InternalServerError("Failed to save person").Write(w)
		return
	}

	s.invalidateRoster()
	s.structured.LogPersonAdded(r.Context(), name, ref)

	NewHTMXResponse().
		TriggerPersonAdded(name).
		TriggerSuccessNotification("Added " + name).
		BodyHTML(`<div class="success">Added ` + template.HTMLEscapeString(name) + `</div>`).
		Write(w)
}

func (s *Server) renderPeopleOptions(names []string) (string, error) {
	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	data := struct {
		People []string
	}{People: names}
	if err := s.templates.ExecuteTemplate(&buf, "people_options.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
