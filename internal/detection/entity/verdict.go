package entity

const (
	// MessageNotRequired is returned for low-risk transactions.
	MessageNotRequired = "not required"
	// MessageMissingCredentials is returned when step-up is required but the code or secret is absent.
	MessageMissingCredentials = "missing credentials"
	// MessageVerified is returned when the supplied code matches.
	MessageVerified = "verified"
	// MessageInvalidCode is returned when the supplied code does not match.
	MessageInvalidCode = "invalid code"
)

// Verdict is the outcome of a detection. Blocked means the transaction must not proceed.
type Verdict struct {
	RequiresStepUp bool
	Blocked        bool
	Errored        bool
	Message        string
}

// Outcome returns a low-cardinality label for metrics and logs.
func (v Verdict) Outcome() string {
	switch {
	case !v.RequiresStepUp:
		return "allowed"
	case v.Errored:
		return "missing_credentials"
	case v.Blocked:
		return "blocked"
	default:
		return "verified"
	}
}
