package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"finspeak/internal/ai"
)

// defaultTipCount is how many tips the dashboard asks for.
const defaultTipCount = 5

// GenerateTips returns a list of short finance tips, personalized with the
// stored expense history when requested.
func (h *Handlers) GenerateTips(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic        string `json:"topic"`
		Count        int    `json:"count"`
		Personalized bool   `json:"personalized"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		req.Count = defaultTipCount
	}

	tipsReq := ai.TipsRequest{Topic: req.Topic, Count: req.Count}
	if req.Personalized {
		tipsReq.Expenses = h.store.ListExpenses()
	}

	tips, err := h.advisor.GenerateTips(r.Context(), tipsReq)
	if err != nil {
		h.log.WithError(err).Error("generate tips failed")
		h.writeError(w, serviceStatus(err), "failed to generate finance tips")
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Tips []string `json:"tips"`
	}{Tips: tips})
}

// Chat answers a free-text question about the user's spending.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := h.advisor.AnswerQuestion(r.Context(), req.Query, h.store.ListExpenses())
	if err != nil {
		h.log.WithError(err).Error("chat failed")
		h.writeError(w, serviceStatus(err), "failed to get an answer")
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Answer string `json:"answer"`
	}{Answer: answer})
}
