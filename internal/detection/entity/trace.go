package entity

import "math/big"

// TransactionTrace is the part of an EVM transaction trace the risk rules read.
// It is built once by the caller and never mutated afterwards.
type TransactionTrace struct {
	// Value is the transferred amount in wei. Nil is read as zero.
	Value *big.Int

	// ProtocolName is the protocol the transaction targets, in any case.
	ProtocolName string

	// Calls are the internal calls triggered by the transaction.
	Calls []Call
}

// Call is an internal call record. Only its presence matters to the risk rules.
type Call struct {
	From    string
	To      string
	Input   string
	Output  string
	GasUsed string
	Value   string
}

// Credential is the TOTP pair supplied by the caller for step-up.
type Credential struct {
	Code   string
	Secret string
}

// Complete reports whether both code and secret are present.
func (c *Credential) Complete() bool {
	return c != nil && c.Code != "" && c.Secret != ""
}
