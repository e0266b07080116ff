package http

import (
	"errors"
	"net/http"

	"earnings/internal/core"
	"earnings/internal/log"
	"earnings/internal/window"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":   "ok",
		"security": s.SecurityStats(),
	}
	if s.cacheStats != nil {
		body["cache"] = s.cacheStats()
	}
	NewResponse().JSON(body).Write(w)
}

func (s *Server) presenter() presenter {
	return newPresenter(s.svc.Settings(), s.svc.AssigneeName)
}

// handleDashboard renders the whole dashboard for ?window=all|year|month|week.
// Unknown windows fall back to all.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	win := window.Parse(r.URL.Query().Get("window"))
	snap := s.svc.Snapshot(r.Context(), win)
	p := newPresenter(core.DisplaySettings{Currency: snap.Currency, Rate: snap.Rate}, s.svc.AssigneeName)
	NewResponse().JSON(p.dashboard(snap)).Write(w)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	win := window.Parse(r.URL.Query().Get("window"))
	NewResponse().JSON(s.presenter().projects(s.svc.Projects(win))).Write(w)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.svc.Project(id)
	if !ok {
		NotFoundError("project not found").Write(w)
		return
	}
	NewResponse().JSON(s.presenter().project(p)).Write(w)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, err := ParseProjectInput(NewRequestBodyParser(r), s.svc.Location())
	if err != nil {
		s.writeInputError(w, r, err, log.OpCreate)
		return
	}

	p, err := s.svc.CreateProject(ctx, in)
	if err != nil {
		s.writeInputError(w, r, err, log.OpCreate)
		return
	}

	NewResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/projects/"+p.ID).
		TriggerProjectChanged("created", p.ID).
		JSON(s.presenter().project(p)).
		Write(w)
}

type updateResult struct {
	Updated bool         `json:"updated"`
	Project *ProjectView `json:"project,omitempty"`
}

// handleUpdateProject edits a project. An unknown id answers 200 with
// updated=false and leaves the store untouched.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	in, err := ParseProjectInput(NewRequestBodyParser(r), s.svc.Location())
	if err != nil {
		s.writeInputError(w, r, err, log.OpUpdate)
		return
	}

	p, ok, err := s.svc.UpdateProject(ctx, id, in)
	if err != nil {
		s.writeInputError(w, r, err, log.OpUpdate)
		return
	}
	if !ok {
		NewResponse().JSON(updateResult{Updated: false}).Write(w)
		return
	}

	view := s.presenter().project(p)
	NewResponse().
		TriggerProjectChanged("updated", p.ID).
		JSON(updateResult{Updated: true, Project: &view}).
		Write(w)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted := s.svc.DeleteProject(r.Context(), id)

	resp := NewResponse().JSON(map[string]bool{"deleted": deleted})
	if deleted {
		resp.TriggerProjectChanged("deleted", id)
	}
	resp.Write(w)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.presenter().members(s.svc.TeamRollup())).Write(w)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(settingsView(s.svc.Settings())).Write(w)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	cur, err := core.ParseCurrency(parser.Get("currency"))
	if err == nil {
		err = s.svc.SetCurrency(r.Context(), cur)
	}
	if err != nil {
		s.writeInputError(w, r, err, log.OpUpdate)
		return
	}

	NewResponse().
		TriggerSettingsChanged(string(cur)).
		JSON(settingsView(s.svc.Settings())).
		Write(w)
}

// writeInputError maps validation failures to 422, unreadable bodies to 400
// and anything else to 500.
func (s *Server) writeInputError(w http.ResponseWriter, r *http.Request, err error, op string) {
	ctx := r.Context()
	switch {
	case errors.Is(err, errMalformedBody):
		log.FromContext(ctx).WarnContext(ctx, "Malformed request body",
			log.FieldOperation, op, log.FieldError, err.Error())
		BadRequestError("malformed request body").Write(w)
	case core.IsValidationError(err):
		log.FromContext(ctx).InfoContext(ctx, "Validation failed",
			log.FieldOperation, op, log.FieldError, err.Error())
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Request failed", err, op,
			log.NewFields().WithErrorType(log.ErrorTypeInternal))
		InternalServerError("internal error").Write(w)
	}
}
