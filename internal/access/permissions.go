// Package access holds the role model: which capabilities each role carries and
// which capability each ledger operation requires.
package access

import "strings"

// Role is the closed set of caller roles. Anything unrecognized parses to
// RoleUnknown, which carries no capabilities.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleAssistant
	RoleInvestor
)

// ParseRole maps a role name to a Role, ignoring case and surrounding space.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "assistant":
		return RoleAssistant
	case "investor":
		return RoleInvestor
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleAssistant:
		return "Assistant"
	case RoleInvestor:
		return "Investor"
	default:
		return "Unknown"
	}
}

// Caller is the resolved identity of whoever is asking. InvestorID, when set,
// links the caller to an Investor record by identifier instead of by name.
type Caller struct {
	Name       string
	Role       Role
	InvestorID string
}

// CapabilitySet is a bundle of named permissions.
type CapabilitySet struct {
	CanViewAllData            bool `json:"canViewAllData"`
	CanViewInvestors          bool `json:"canViewInvestors"`
	CanViewExpenses           bool `json:"canViewExpenses"`
	CanViewRevenues           bool `json:"canViewRevenues"`
	CanViewWithdrawals        bool `json:"canViewWithdrawals"`
	CanViewSettings           bool `json:"canViewSettings"`
	CanViewProjectWithdrawals bool `json:"canViewProjectWithdrawals"`
}

// CapabilitiesFor returns the capability set of role. Unknown roles get the
// empty set.
func CapabilitiesFor(role Role) CapabilitySet {
	switch role {
	case RoleAdmin:
		return CapabilitySet{
			CanViewAllData:            true,
			CanViewInvestors:          true,
			CanViewExpenses:           true,
			CanViewRevenues:           true,
			CanViewWithdrawals:        true,
			CanViewSettings:           true,
			CanViewProjectWithdrawals: true,
		}
	case RoleAssistant:
		return CapabilitySet{
			CanViewAllData:     true,
			CanViewInvestors:   true,
			CanViewExpenses:    true,
			CanViewRevenues:    true,
			CanViewWithdrawals: true,
		}
	case RoleInvestor:
		// Investors reach the dashboard through the gate's explicit rule and
		// see only their own withdrawals.
		return CapabilitySet{CanViewWithdrawals: true}
	case RoleUnknown:
		return CapabilitySet{}
	default:
		return CapabilitySet{}
	}
}
