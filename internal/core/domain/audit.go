package domain

import "time"

// Audit actions recorded by the auth subsystem.
const (
	AuditLogin      = "login"
	AuditRegister   = "register"
	AuditCreateUser = "create_user"
	AuditIssueCode  = "issue_approval_code"
	AuditRedeemCode = "redeem_approval_code"
)

// AuthEvent is an audit record of a single auth operation's outcome.
type AuthEvent struct {
	Username  string
	Action    string
	Outcome   string // "success" or a short failure reason
	Timestamp time.Time
}
