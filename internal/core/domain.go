package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultCurrency is the ledger currency when settings do not name one.
const DefaultCurrency = "MRU"

type (
	Date struct {
		time.Time
	}

	// Attachment is metadata of a file attached to a record. The content itself
	// lives outside the ledger.
	Attachment struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
		Type string `json:"type"`
	}

	Investor struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Phone           string    `json:"phone,omitempty"`
		SharePercentage Percent   `json:"sharePercentage"`
		TotalInvested   Money     `json:"totalInvested"`
		TotalProfit     Money     `json:"totalProfit"`
		TotalWithdrawn  Money     `json:"totalWithdrawn"`
		CurrentBalance  Money     `json:"currentBalance"` // stored, never derived here
		LastUpdated     time.Time `json:"lastUpdated"`
	}

	Expense struct {
		ID          string       `json:"id"`
		Category    string       `json:"category,omitempty"`
		Amount      Money        `json:"amount"`
		Date        Date         `json:"date"`
		Notes       string       `json:"notes,omitempty"`
		AddedBy     string       `json:"addedBy,omitempty"`
		Attachments []Attachment `json:"attachments,omitempty"`
	}

	Revenue struct {
		ID          string       `json:"id"`
		Amount      Money        `json:"amount"`
		Date        Date         `json:"date"`
		Description string       `json:"description,omitempty"`
		AddedBy     string       `json:"addedBy,omitempty"`
		Attachments []Attachment `json:"attachments,omitempty"`
	}

	// Withdrawal is a payout to an investor. InvestorName is free text; InvestorID,
	// when set, is the authoritative link to Investor.ID.
	Withdrawal struct {
		ID           string `json:"id"`
		InvestorName string `json:"investorName"`
		InvestorID   string `json:"investorId,omitempty"`
		Amount       Money  `json:"amount"`
		Date         Date   `json:"date"`
		Notes        string `json:"notes,omitempty"`
		ApprovedBy   string `json:"approvedBy,omitempty"`
	}

	// ProjectWithdrawal is a payout taken from the project's own share.
	ProjectWithdrawal struct {
		ID         string `json:"id"`
		Amount     Money  `json:"amount"`
		Date       Date   `json:"date"`
		Notes      string `json:"notes,omitempty"`
		ApprovedBy string `json:"approvedBy,omitempty"`
	}

	Settings struct {
		ProjectPercentage Percent   `json:"projectPercentage"`
		Currency          string    `json:"currency"`
		SheetID           string    `json:"sheetId,omitempty"`
		LastSync          time.Time `json:"lastSync,omitempty"`
		EnableAIInsights  bool      `json:"enableAIInsights,omitempty"`
		EnableDriveLink   bool      `json:"enableGoogleDriveLink,omitempty"`
	}

	// Snapshot is everything one aggregation reads, loaded once per request.
	Snapshot struct {
		Investors          []Investor          `json:"investors"`
		Expenses           []Expense           `json:"expenses"`
		Revenues           []Revenue           `json:"revenues"`
		Withdrawals        []Withdrawal        `json:"withdrawals"`
		ProjectWithdrawals []ProjectWithdrawal `json:"projectWithdrawals"`
		Settings           Settings            `json:"settings"`
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPercentage = errors.New("invalid percentage")
	ErrInvalidDate       = errors.New("invalid date")
	ErrEmptyID           = errors.New("empty id")
	ErrEmptyName         = errors.New("empty name")
	ErrUnknownCurrency   = errors.New("unknown currency")
)

// DefaultSettings mirrors the settings a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		ProjectPercentage: NewPercent(15),
		Currency:          DefaultCurrency,
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "1/2/2006", "01/02/2006"}

// ParseDate accepts ISO dates, RFC 3339 timestamps and the US M/D/YYYY form
// older ledgers were written in.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func validateAmount(m Money) error {
	if m.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (i Investor) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if !i.SharePercentage.InRange() {
		return ErrInvalidPercentage
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	return validateAmount(e.Amount)
}

func (r Revenue) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	return validateAmount(r.Amount)
}

func (w Withdrawal) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(w.InvestorName) == "" && strings.TrimSpace(w.InvestorID) == "" {
		return ErrEmptyName
	}
	return validateAmount(w.Amount)
}

func (w ProjectWithdrawal) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return ErrEmptyID
	}
	return validateAmount(w.Amount)
}

func (s Settings) Validate() error {
	if !s.ProjectPercentage.InRange() {
		return ErrInvalidPercentage
	}
	if !KnownCurrency(s.Currency) {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, s.Currency)
	}
	return nil
}

// Validate checks every record, reporting the first failure with its position.
func (s Snapshot) Validate() error {
	for i, v := range s.Investors {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("investor %d: %w", i, err)
		}
	}
	for i, v := range s.Expenses {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}
	for i, v := range s.Revenues {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("revenue %d: %w", i, err)
		}
	}
	for i, v := range s.Withdrawals {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("withdrawal %d: %w", i, err)
		}
	}
	for i, v := range s.ProjectWithdrawals {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("project withdrawal %d: %w", i, err)
		}
	}
	if err := s.Settings.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
