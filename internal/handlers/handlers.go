package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"finspeak/internal/ai"
	"finspeak/internal/capture"
	"finspeak/internal/export"
	"finspeak/internal/models"
	"finspeak/internal/service"
	"finspeak/internal/storage"
)

// minTextCommandLength matches the text-command form validation: anything
// shorter is rejected before the extraction service is called.
const minTextCommandLength = 10

// Advisor generates finance tips and answers questions about spending.
type Advisor interface {
	GenerateTips(ctx context.Context, req ai.TipsRequest) ([]string, error)
	AnswerQuestion(ctx context.Context, query string, expenses []models.Expense) (string, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store    *storage.Store
	expenses *service.Expenses
	advisor  Advisor
	log      logrus.FieldLogger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *storage.Store, expenses *service.Expenses, advisor Advisor, log logrus.FieldLogger) *Handlers {
	return &Handlers{store: store, expenses: expenses, advisor: advisor, log: log}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("write response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

// serviceStatus maps an intake or advisory failure to a response status.
// Every failure is terminal and local: it becomes one user-facing
// notification, nothing retries.
func serviceStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNothingUnderstood):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrExtraction), errors.Is(err, ai.ErrTranscription), errors.Is(err, ai.ErrAdvisory):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ListExpenses returns all expenses, newest first.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := h.store.ListExpenses()
	if expenses == nil {
		expenses = []models.Expense{}
	}
	h.writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense handles a manual form entry.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.expenses.AddManual(r.Context(), req.Amount, models.Category(req.Category))
	if err != nil {
		h.log.WithError(err).Warn("manual expense rejected")
		h.writeError(w, serviceStatus(err), err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// CreateExpenseFromText runs a free-text command through extraction.
func (h *Handlers) CreateExpenseFromText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(strings.TrimSpace(req.Text)) < minTextCommandLength {
		h.writeError(w, http.StatusBadRequest, "please provide a more detailed description")
		return
	}

	e, err := h.expenses.AddFromText(r.Context(), req.Text)
	if err != nil {
		h.log.WithError(err).Error("text command failed")
		h.writeError(w, serviceStatus(err), "could not understand the expense from your input")
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// CreateExpenseFromAudio accepts a finalized recording as a data URI,
// transcribes it and extracts an expense from the text.
func (h *Handlers) CreateExpenseFromAudio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Audio string `json:"audio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := capture.ParseDataURI(req.Audio)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid audio payload")
		return
	}

	e, err := h.expenses.AddFromAudio(r.Context(), payload)
	if err != nil {
		h.log.WithError(err).Error("audio command failed")
		if errors.Is(err, service.ErrNothingUnderstood) {
			h.writeError(w, serviceStatus(err), "could not understand audio")
			return
		}
		h.writeError(w, serviceStatus(err), "could not process your voice command")
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// ExportExpenses serves the full collection as a CSV download. An empty
// collection yields a notification instead of a zero-row file.
func (h *Handlers) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, h.store.ListExpenses()); err != nil {
		if errors.Is(err, export.ErrNoData) {
			h.writeError(w, http.StatusNotFound, "there are no expenses to export")
			return
		}
		h.log.WithError(err).Error("export failed")
		h.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WithError(err).Error("write export")
	}
}

// ListGoals returns all savings goals.
func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals := h.store.ListGoals()
	if goals == nil {
		goals = []models.Goal{}
	}
	h.writeJSON(w, http.StatusOK, goals)
}

// CreateGoal adds a new savings goal with a zero current amount.
func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string    `json:"name"`
		TargetAmount float64   `json:"targetAmount"`
		TargetDate   time.Time `json:"targetDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := models.NewGoal(req.Name, req.TargetAmount, req.TargetDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.AddGoal(g); err != nil {
		h.log.WithError(err).Error("save goal")
		h.writeError(w, http.StatusInternalServerError, "could not save goal")
		return
	}
	h.writeJSON(w, http.StatusCreated, g)
}

// UpdateGoal replaces a goal by identifier. The target date is not
// re-validated here; it was checked at creation time only.
func (h *Handlers) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var g models.Goal
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g.ID = r.PathValue("id")

	if err := h.store.UpdateGoal(g); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		h.log.WithError(err).Error("update goal")
		h.writeError(w, http.StatusInternalServerError, "could not update goal")
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// GetProfile returns the stored profile, or the default one.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Profile())
}

// UpdateProfile replaces the profile wholesale.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.MonthlyIncome < 0 {
		h.writeError(w, http.StatusBadRequest, "monthly income cannot be negative")
		return
	}

	if err := h.store.SaveProfile(p); err != nil {
		h.log.WithError(err).Error("save profile")
		h.writeError(w, http.StatusInternalServerError, "could not save profile")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}
