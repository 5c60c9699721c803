package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/banshee-data/pasture.report/internal/db"
	"github.com/banshee-data/pasture.report/internal/httputil"
	"github.com/banshee-data/pasture.report/internal/pasture"
	"github.com/banshee-data/pasture.report/internal/security"
)

const (
	maxLabelLen        = 120
	maxScenarioBodyLen = 64 << 10
)

const msgStoreDisabled = "scenario log is disabled"

// scenarioRequest is the JSON body accepted by POST /api/scenarios.
// Omitted fields keep the configured defaults.
type scenarioRequest struct {
	Label        string               `json:"label"`
	Inputs       pasture.Inputs       `json:"inputs"`
	Coefficients pasture.Coefficients `json:"coefficients"`
}

// handleScenarios lists (GET) or saves (POST) scenarios.
func (ws *WebServer) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if ws.store == nil {
		httputil.ServiceUnavailable(w, msgStoreDisabled)
		return
	}

	switch r.Method {
	case http.MethodGet:
		ws.listScenarios(w, r)
	case http.MethodPost:
		ws.createScenario(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// handleScenario reads (GET) or deletes (DELETE) one scenario by ID.
func (ws *WebServer) handleScenario(w http.ResponseWriter, r *http.Request) {
	if ws.store == nil {
		httputil.ServiceUnavailable(w, msgStoreDisabled)
		return
	}

	id := r.PathValue("id")
	switch r.Method {
	case http.MethodGet:
		s, err := ws.store.GetScenario(id)
		ws.metrics.ObserveScenario("get", err)
		if err != nil {
			ws.writeStoreError(w, err)
			return
		}
		if r.URL.Query().Has("download") {
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", scenarioFilename(s)))
		}
		httputil.WriteJSONOK(w, s)
	case http.MethodDelete:
		err := ws.store.DeleteScenario(id)
		ws.metrics.ObserveScenario("delete", err)
		if err != nil {
			ws.writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// scenarioFilename names a downloaded scenario after its label, falling back
// to its ID.
func scenarioFilename(s *db.Scenario) string {
	name := s.Label
	if name == "" {
		name = s.ScenarioID
	}
	return "scenario-" + security.SanitizeFilename(name) + ".json"
}

func (ws *WebServer) listScenarios(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query(), db.DefaultListLimit)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	scenarios, err := ws.store.ListScenarios(limit)
	ws.metrics.ObserveScenario("list", err)
	if err != nil {
		ws.writeStoreError(w, err)
		return
	}
	httputil.WriteJSONOK(w, scenarios)
}

// createScenario computes the estimates for the submitted inputs and saves
// them. It accepts a JSON body or the index page's form; the form sets
// redirect=index to land back on the page instead of receiving JSON.
func (ws *WebServer) createScenario(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScenarioBodyLen)

	var (
		p        calcParams
		label    string
		redirect bool
		err      error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		p, label, err = ws.decodeScenarioJSON(r)
	} else {
		if err = r.ParseForm(); err != nil {
			err = fmt.Errorf("invalid form: %w", err)
		} else {
			p, err = parseParams(r.Form, ws.config)
			label = r.Form.Get("label")
			redirect = r.Form.Get("redirect") == "index"
		}
	}
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	label = strings.TrimSpace(label)
	if utf8.RuneCountInString(label) > maxLabelLen {
		httputil.BadRequest(w, fmt.Sprintf("label is longer than %d characters", maxLabelLen))
		return
	}

	result, err := pasture.Estimate(p.Inputs, p.Coefficients)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	// Non-finite rows would break every later list response.
	if !result.Finite() {
		overflowed(w)
		return
	}
	ws.metrics.ObserveEstimate("scenario")

	s := &db.Scenario{
		Label:        label,
		Inputs:       p.Inputs,
		Coefficients: p.Coefficients,
		Result:       result,
	}
	err = ws.store.SaveScenario(s)
	ws.metrics.ObserveScenario("save", err)
	if err != nil {
		ws.writeStoreError(w, err)
		return
	}

	if redirect {
		http.Redirect(w, r, "/?"+p.Query().Encode(), http.StatusSeeOther)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, s)
}

func (ws *WebServer) decodeScenarioJSON(r *http.Request) (calcParams, string, error) {
	p := defaultParams(ws.config)
	req := scenarioRequest{Inputs: p.Inputs, Coefficients: p.Coefficients}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return calcParams{}, "", fmt.Errorf("invalid JSON body: %w", err)
	}
	p.Inputs = req.Inputs
	p.Coefficients = req.Coefficients
	if err := p.normalize(); err != nil {
		return calcParams{}, "", err
	}
	return p, req.Label, nil
}

func (ws *WebServer) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrScenarioNotFound) {
		httputil.NotFound(w, "scenario not found")
		return
	}
	logf("scenario store error: %v", err)
	httputil.InternalServerError(w, "scenario store error")
}
