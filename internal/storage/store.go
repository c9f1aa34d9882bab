package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"finspeak/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record with the given identifier does not
// exist. Callers should match it with errors.Is.
var ErrNotFound = errors.New("not found")

// Store is an embedded record store for expenses, goals and the profile.
// Records live in owned in-memory maps keyed by identifier; every mutation is
// written through to sqlite as an upsert-by-id, so there are no wholesale
// collection rewrites.
//
// Reads never fail: if a bucket cannot be loaded at open time it degrades to
// an empty collection (or the default profile). Write failures surface to the
// caller.
type Store struct {
	conn *sql.DB

	mu       sync.RWMutex
	expenses map[string]models.Expense
	goals    map[string]models.Goal
	profile  models.Profile
}

// NewStore opens the database, runs migrations and loads all buckets into
// memory.
func NewStore(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	s := &Store{
		conn:     conn,
		expenses: make(map[string]models.Expense),
		goals:    make(map[string]models.Goal),
		profile:  models.DefaultProfile(),
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	s.load()

	return s, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			amount REAL NOT NULL,
			category TEXT NOT NULL,
			date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			target_amount REAL NOT NULL,
			current_amount REAL NOT NULL DEFAULT 0,
			target_date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			date_of_birth TEXT NOT NULL,
			picture TEXT NOT NULL,
			monthly_income REAL NOT NULL DEFAULT 0
		)`,
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// load fills the in-memory maps from the database. Per-bucket read failures
// are masked: the bucket stays empty (the profile stays at its default) and
// the store keeps working.
func (s *Store) load() {
	s.loadExpenses()
	s.loadGoals()
	s.loadProfile()
}

func (s *Store) loadExpenses() {
	rows, err := s.conn.Query("SELECT id, amount, category, date FROM expenses")
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Category, &e.Date); err != nil {
			continue
		}
		s.expenses[e.ID] = e
	}
}

func (s *Store) loadGoals() {
	rows, err := s.conn.Query("SELECT id, name, target_amount, current_amount, target_date FROM goals")
	if err != nil {
		return
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate); err != nil {
			continue
		}
		s.goals[g.ID] = g
	}
}

func (s *Store) loadProfile() {
	row := s.conn.QueryRow("SELECT name, email, phone, date_of_birth, picture, monthly_income FROM profile WHERE id = 1")
	var p models.Profile
	if err := row.Scan(&p.Name, &p.Email, &p.Phone, &p.DateOfBirth, &p.Picture, &p.MonthlyIncome); err == nil {
		s.profile = p
	}
}

// AddExpense upserts a single expense.
func (s *Store) AddExpense(e models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(
		`INSERT INTO expenses (id, amount, category, date) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET amount = excluded.amount, category = excluded.category, date = excluded.date`,
		e.ID, e.Amount, string(e.Category), e.Date,
	)
	if err != nil {
		return fmt.Errorf("save expense: %w", err)
	}
	s.expenses[e.ID] = e
	return nil
}

// ListExpenses returns a copy of all expenses ordered by date descending.
func (s *Store) ListExpenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expenses := make([]models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
	return expenses
}

// ReplaceExpenses overwrites the whole expense collection. This is the only
// way records leave the store.
func (s *Store) ReplaceExpenses(expenses []models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("replace expenses: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM expenses"); err != nil {
		return fmt.Errorf("replace expenses: %w", err)
	}
	for _, e := range expenses {
		if _, err := tx.Exec(
			"INSERT INTO expenses (id, amount, category, date) VALUES (?, ?, ?, ?)",
			e.ID, e.Amount, string(e.Category), e.Date,
		); err != nil {
			return fmt.Errorf("replace expenses: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace expenses: %w", err)
	}

	s.expenses = make(map[string]models.Expense, len(expenses))
	for _, e := range expenses {
		s.expenses[e.ID] = e
	}
	return nil
}

// AddGoal upserts a goal.
func (s *Store) AddGoal(g models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putGoal(g)
}

// UpdateGoal replaces an existing goal by identifier. It returns ErrNotFound
// when no goal with that identifier exists.
func (s *Store) UpdateGoal(g models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[g.ID]; !ok {
		return fmt.Errorf("goal %s: %w", g.ID, ErrNotFound)
	}
	return s.putGoal(g)
}

func (s *Store) putGoal(g models.Goal) error {
	_, err := s.conn.Exec(
		`INSERT INTO goals (id, name, target_amount, current_amount, target_date) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, target_amount = excluded.target_amount,
		 current_amount = excluded.current_amount, target_date = excluded.target_date`,
		g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.TargetDate,
	)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	s.goals[g.ID] = g
	return nil
}

// ListGoals returns a copy of all goals ordered by target date ascending.
func (s *Store) ListGoals() []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]models.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].TargetDate.Before(goals[j].TargetDate) })
	return goals
}

// Profile returns the stored profile, or the default one when none has been
// saved yet.
func (s *Store) Profile() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SaveProfile replaces the profile wholesale.
func (s *Store) SaveProfile(p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(
		`INSERT INTO profile (id, name, email, phone, date_of_birth, picture, monthly_income)
		 VALUES (1, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, phone = excluded.phone,
		 date_of_birth = excluded.date_of_birth, picture = excluded.picture, monthly_income = excluded.monthly_income`,
		p.Name, p.Email, p.Phone, p.DateOfBirth, p.Picture, p.MonthlyIncome,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.profile = p
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
