package handlers

import (
	"net/http"
	"time"

	"finspeak/internal/models"
	"finspeak/internal/stats"
)

// StatsCategoryItem represents a category with its spending statistics.
type StatsCategoryItem struct {
	Category   models.Category `json:"category"`
	Total      float64         `json:"total"`
	Percentage float64         `json:"percentage"`
}

// StatsResponse is the dashboard aggregate view.
type StatsResponse struct {
	MonthTotal            float64             `json:"monthTotal"`
	WeeklyAverage         float64             `json:"weeklyAverage"`
	PreviousWeeklyAverage float64             `json:"previousWeeklyAverage"`
	WeeklyChange          float64             `json:"weeklyChange"`
	SavingsRate           *float64            `json:"savingsRate,omitempty"`
	Categories            []StatsCategoryItem `json:"categories"`
}

// Statistics returns the dashboard aggregates: current-month total, weekly
// averages, category breakdown and — when a monthly income is set — the
// savings rate.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	expenses := h.store.ListExpenses()
	now := time.Now()

	monthTotal := stats.MonthTotal(expenses, now)
	weekly := stats.WeeklyAverage(expenses, now)
	previous := stats.PreviousWeeklyAverage(expenses, now)

	resp := StatsResponse{
		MonthTotal:            monthTotal.InexactFloat64(),
		WeeklyAverage:         weekly.InexactFloat64(),
		PreviousWeeklyAverage: previous.InexactFloat64(),
		WeeklyChange:          stats.WeeklyChange(weekly, previous).InexactFloat64(),
		Categories:            []StatsCategoryItem{},
	}

	if rate, ok := stats.SavingsRate(h.store.Profile().MonthlyIncome, monthTotal); ok {
		v := rate.InexactFloat64()
		resp.SavingsRate = &v
	}

	breakdown := stats.CategoryBreakdown(expenses, now)
	for _, category := range models.Categories() {
		total, ok := breakdown[category]
		if !ok {
			continue
		}
		percentage := 0.0
		if monthTotal.IsPositive() {
			percentage = total.Div(monthTotal).InexactFloat64() * 100
		}
		resp.Categories = append(resp.Categories, StatsCategoryItem{
			Category:   category,
			Total:      total.InexactFloat64(),
			Percentage: percentage,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}
