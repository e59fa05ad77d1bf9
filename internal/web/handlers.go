package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AIforimpact22/rawand/internal/logging"
	"github.com/AIforimpact22/rawand/internal/table"
	"github.com/AIforimpact22/rawand/internal/wizard"
)

// sampleHeaders pre-fills the create-headers form for a fresh table.
const sampleHeaders = "RespondentID,Country,YearsExperience,PrimaryDesignTool,AIUsageFrequency,AIApplications,PerceivedBenefits,MainConcerns,SatisfactionScore,WouldRecommendAI"

// draftEntry is one column/value pair for the preview tables.
type draftEntry struct {
	Column string
	Value  any
}

// bootstrapPage is the template data for the create-headers page.
type bootstrapPage struct {
	Path   string
	Sample string
}

// wizardPage is the template data for the wizard page.
type wizardPage struct {
	Path      string
	Field     wizard.Field
	KindName  string
	IsBool    bool
	Checked   bool
	Step      int // 1-based field position
	Percent   int
	AtFirst   bool
	AtLast    bool
	Draft     []draftEntry
	LastSaved []draftEntry
	RowCount  int
}

// session returns the wizard session bound to the request cookie,
// creating one (and setting the cookie) when none exists.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*wizard.Session, error) {
	if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
		if sess, ok := s.manager.Session(c.Value); ok {
			return sess, nil
		}
	}

	sess, err := s.manager.NewSession()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// handleWizardPage renders the wizard, or the create-headers page when
// the table has no columns yet.
func (s *Server) handleWizardPage(w http.ResponseWriter, r *http.Request) {
	if !s.manager.HasColumns() {
		s.render(w, r, "bootstrap.html", bootstrapPage{
			Path:   s.manager.Path(),
			Sample: sampleHeaders,
		})
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}

	field := sess.Current()
	columns := s.manager.Columns()
	draft := sess.Draft()

	page := wizardPage{
		Path:     s.manager.Path(),
		Field:    field,
		KindName: field.Kind.String(),
		IsBool:   field.Kind == table.KindBool,
		Checked:  table.ParseBool(field.Draft).Bool,
		Step:     field.Index + 1,
		Percent:  (field.Index + 1) * 100 / field.Total,
		AtFirst:  field.Index == 0,
		AtLast:   field.Index == field.Total-1,
		RowCount: s.manager.NumRows(),
	}
	for _, c := range columns {
		page.Draft = append(page.Draft, draftEntry{Column: c, Value: draft[c]})
	}
	if last := sess.LastSaved(); last != nil {
		for _, c := range columns {
			page.LastSaved = append(page.LastSaved, draftEntry{Column: c, Value: last[c]})
		}
	}

	s.render(w, r, "wizard.html", page)
}

// sessionError answers a failed session lookup. A table without
// columns is not a server fault: the wizard page shows the
// create-headers form, so send the client there.
func (s *Server) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, wizard.ErrNoColumns) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeError(w, r, http.StatusInternalServerError, "failed to start session")
}

// handleStep records the submitted field value and applies one wizard
// action: back, next, or save.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	sess.SetValue(r.FormValue("value"))

	var actionErr error
	switch action := r.FormValue("action"); action {
	case "back":
		actionErr = sess.Back()
	case "next":
		actionErr = sess.Next()
	case "save":
		actionErr = sess.Save()
	default:
		writeError(w, r, http.StatusBadRequest, "unknown action: "+action)
		return
	}

	switch {
	case actionErr == nil:
	case errors.Is(actionErr, wizard.ErrAtFirst),
		errors.Is(actionErr, wizard.ErrAtLast),
		errors.Is(actionErr, wizard.ErrNotAtEnd):
		// Out-of-range moves leave the wizard where it is. The page's
		// disabled buttons make these unreachable in normal use.
		logging.FromContext(r.Context()).Debug("rejected wizard move", "error", actionErr)
	default:
		writeError(w, r, http.StatusInternalServerError, "failed to save row")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReset discards the draft and returns to the first field.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.jump(w, r, (*wizard.Session).Reset)
}

// handleFirst jumps to the first field, keeping the draft.
func (s *Server) handleFirst(w http.ResponseWriter, r *http.Request) {
	s.jump(w, r, (*wizard.Session).First)
}

// handleLast jumps to the last field, keeping the draft.
func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	s.jump(w, r, (*wizard.Session).Last)
}

func (s *Server) jump(w http.ResponseWriter, r *http.Request, move func(*wizard.Session)) {
	sess, err := s.session(w, r)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}
	move(sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCreateHeaders bootstraps the table columns from the
// comma-separated names in the form.
func (s *Server) handleCreateHeaders(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	var names []string
	for _, n := range strings.Split(r.FormValue("columns"), ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		writeError(w, r, http.StatusBadRequest, "enter at least one column name")
		return
	}

	if err := s.manager.CreateHeaders(names); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	logging.FromContext(r.Context()).Info("headers created",
		"path", s.manager.Path(),
		"columns", len(names),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleTableJSON returns the whole table.
func (s *Server) handleTableJSON(w http.ResponseWriter, r *http.Request) {
	kinds := s.manager.Kinds()
	kindNames := make([]string, len(kinds))
	for i, k := range kinds {
		kindNames[i] = k.String()
	}

	writeJSON(w, r, map[string]any{
		"path":     s.manager.Path(),
		"columns":  s.manager.Columns(),
		"kinds":    kindNames,
		"rowCount": s.manager.NumRows(),
		"rows":     s.manager.Rows(),
	})
}

// handleColumnsJSON returns the columns with their inferred kinds.
func (s *Server) handleColumnsJSON(w http.ResponseWriter, r *http.Request) {
	columns := s.manager.Columns()
	kinds := s.manager.Kinds()

	type columnInfo struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	infos := make([]columnInfo, len(columns))
	for i, c := range columns {
		infos[i] = columnInfo{Name: c, Kind: kinds[i].String()}
	}
	writeJSON(w, r, infos)
}

// handleWizardJSON returns the state of the requester's session.
func (s *Server) handleWizardJSON(w http.ResponseWriter, r *http.Request) {
	if !s.manager.HasColumns() {
		writeJSON(w, r, map[string]any{"ready": false})
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to start session")
		return
	}

	field := sess.Current()
	writeJSON(w, r, map[string]any{
		"ready":     true,
		"index":     field.Index,
		"total":     field.Total,
		"field":     field.Name,
		"kind":      field.Kind.String(),
		"draft":     sess.Draft(),
		"lastSaved": sess.LastSaved(),
	})
}

// render executes a page template.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logging.FromContext(r.Context()).Error("template render error", "template", name, "error", err)
	}
}
