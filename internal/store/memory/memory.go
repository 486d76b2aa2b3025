// Package memory is an in-process ledger store backed by a JSON seed file or a
// built-in sample ledger.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	snap core.Snapshot
}

var (
	_ store.Reader   = (*Store)(nil)
	_ store.Importer = (*Store)(nil)
)

// New returns a store holding snap. An empty currency gets the default.
func New(snap core.Snapshot) *Store {
	s := &Store{}
	s.set(snap)
	return s
}

// NewFromFile loads a snapshot from a JSON document shaped like core.Snapshot.
func NewFromFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	var present struct {
		Settings struct {
			ProjectPercentage json.RawMessage `json:"projectPercentage"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	// Only fields the file leaves out are defaulted; an explicit 0 stays 0.
	if pct := present.Settings.ProjectPercentage; len(pct) == 0 || string(pct) == "null" {
		snap.Settings.ProjectPercentage = core.DefaultSettings().ProjectPercentage
	}
	if snap.Settings.Currency == "" {
		snap.Settings.Currency = core.DefaultCurrency
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return New(snap), nil
}

// Import replaces the whole ledger with snap after validating it.
func (s *Store) Import(_ context.Context, snap core.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.set(snap)
	return nil
}

func (s *Store) set(snap core.Snapshot) {
	if snap.Settings.Currency == "" {
		snap.Settings.Currency = core.DefaultCurrency
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = core.Snapshot{
		Investors:          append([]core.Investor(nil), snap.Investors...),
		Expenses:           append([]core.Expense(nil), snap.Expenses...),
		Revenues:           append([]core.Revenue(nil), snap.Revenues...),
		Withdrawals:        append([]core.Withdrawal(nil), snap.Withdrawals...),
		ProjectWithdrawals: append([]core.ProjectWithdrawal(nil), snap.ProjectWithdrawals...),
		Settings:           snap.Settings,
	}
}

func (s *Store) ListInvestors(_ context.Context) ([]core.Investor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Investor{}, s.snap.Investors...), nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense{}, s.snap.Expenses...), nil
}

func (s *Store) ListRevenues(_ context.Context) ([]core.Revenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Revenue{}, s.snap.Revenues...), nil
}

func (s *Store) ListWithdrawals(_ context.Context) ([]core.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Withdrawal{}, s.snap.Withdrawals...), nil
}

func (s *Store) ListProjectWithdrawals(_ context.Context) ([]core.ProjectWithdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.ProjectWithdrawal{}, s.snap.ProjectWithdrawals...), nil
}

func (s *Store) GetSettings(_ context.Context) (core.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Settings, nil
}
