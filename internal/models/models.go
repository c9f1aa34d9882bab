package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies an expense. The set is fixed; anything the extraction
// service cannot confidently classify ends up in CategoryOther.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTravel        Category = "Travel"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills"
	CategoryOther         Category = "Other"
)

// Categories returns all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTravel,
		CategoryShopping,
		CategoryEntertainment,
		CategoryBills,
		CategoryOther,
	}
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps free-form text to a Category, case-insensitively.
// Unknown input maps to CategoryOther.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, known := range Categories() {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return CategoryOther
}

var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyGoalName   = errors.New("goal name is required")
	ErrInvalidTarget   = errors.New("target amount must be greater than zero")
	ErrPastTargetDate  = errors.New("target date must be in the future")
)

// Expense is a single financial transaction. Expenses are immutable once
// created; removal happens only through a full-collection overwrite.
type Expense struct {
	ID       string    `json:"id"`
	Amount   float64   `json:"amount"`
	Category Category  `json:"category"`
	Date     time.Time `json:"date"`
}

// NewExpense builds an expense with a fresh identifier and timestamp.
func NewExpense(amount float64, category Category) (Expense, error) {
	if amount <= 0 {
		return Expense{}, ErrInvalidAmount
	}
	if !category.Valid() {
		return Expense{}, ErrInvalidCategory
	}
	return Expense{
		ID:       uuid.NewString(),
		Amount:   amount,
		Category: category,
		Date:     time.Now().UTC(),
	}, nil
}

// Goal is a savings goal. CurrentAmount is maintained externally and may
// exceed TargetAmount; progress is then displayed as 100% or more.
type Goal struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	TargetDate    time.Time `json:"targetDate"`
}

// NewGoal builds a goal with a fresh identifier and a zero current amount.
// The target date is validated against now only here, never again.
func NewGoal(name string, targetAmount float64, targetDate time.Time) (Goal, error) {
	if strings.TrimSpace(name) == "" {
		return Goal{}, ErrEmptyGoalName
	}
	if targetAmount <= 0 {
		return Goal{}, ErrInvalidTarget
	}
	if !targetDate.After(time.Now()) {
		return Goal{}, ErrPastTargetDate
	}
	return Goal{
		ID:           uuid.NewString(),
		Name:         name,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
	}, nil
}

// Profile holds the user's details. There is exactly one profile per store;
// it is replaced wholesale on every update.
type Profile struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	DateOfBirth   string  `json:"dateOfBirth"`
	Picture       string  `json:"picture"`
	MonthlyIncome float64 `json:"monthlyIncome"`
}

// DefaultProfile is the fallback used when no profile has been stored yet
// or the stored one cannot be read.
func DefaultProfile() Profile {
	return Profile{
		Name:        "Alex Doe",
		Email:       "alex.doe@example.com",
		Phone:       "123-456-7890",
		DateOfBirth: "1990-01-01",
		Picture:     "https://placehold.co/128x128.png",
	}
}
