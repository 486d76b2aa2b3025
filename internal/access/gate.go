package access

import (
	"errors"
	"fmt"
)

// Operation names one exposed ledger read.
type Operation string

const (
	OpDashboard          Operation = "dashboard"
	OpInvestors          Operation = "investors"
	OpExpenses           Operation = "expenses"
	OpRevenues           Operation = "revenues"
	OpWithdrawals        Operation = "withdrawals"
	OpProjectWithdrawals Operation = "project_withdrawals"
	OpSyncData           Operation = "sync_data"
)

// Operations lists every gated operation.
func Operations() []Operation {
	return []Operation{
		OpDashboard, OpInvestors, OpExpenses, OpRevenues,
		OpWithdrawals, OpProjectWithdrawals, OpSyncData,
	}
}

// ErrPermissionDenied matches every *Denied under errors.Is.
var ErrPermissionDenied = errors.New("permission denied")

// Denied is the uniform refusal. It carries only a stable reason code; turning
// it into a user message is the boundary's job.
type Denied struct {
	Op     Operation
	Reason string
}

func (d *Denied) Error() string {
	return fmt.Sprintf("permission denied: %s", d.Reason)
}

func (d *Denied) Is(target error) bool { return target == ErrPermissionDenied }

// ReasonCode is the stable code reported when op is refused.
func ReasonCode(op Operation) string { return "forbidden." + string(op) }

// Allowed reports whether caller may perform op.
func Allowed(caller Caller, op Operation) bool {
	caps := CapabilitiesFor(caller.Role)
	switch op {
	case OpDashboard:
		// Investors always get in; their view is narrowed afterwards.
		return caps.CanViewAllData || caller.Role == RoleInvestor
	case OpInvestors:
		return caps.CanViewInvestors
	case OpExpenses:
		return caps.CanViewExpenses
	case OpRevenues:
		return caps.CanViewRevenues
	case OpWithdrawals:
		return caps.CanViewWithdrawals
	case OpProjectWithdrawals:
		return caps.CanViewProjectWithdrawals
	case OpSyncData:
		return caps.CanViewSettings
	default:
		return false
	}
}

// Authorize returns nil when caller may perform op and a *Denied otherwise.
func Authorize(caller Caller, op Operation) error {
	if Allowed(caller, op) {
		return nil
	}
	return &Denied{Op: op, Reason: ReasonCode(op)}
}
