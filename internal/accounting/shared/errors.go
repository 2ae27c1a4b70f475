package shared

import "errors"

var (
	// ErrUnknownAccount indicates a posting referenced an account code
	// that does not exist in the chart. Postings fail loudly at write
	// time; nothing is ever silently dropped from reports.
	ErrUnknownAccount = errors.New("accounting: unknown account code")
	// ErrInvalidAmount indicates a zero or negative posting amount.
	ErrInvalidAmount = errors.New("accounting: amount must be positive")
	// ErrSameAccount indicates debit and credit name the same account.
	ErrSameAccount = errors.New("accounting: debit and credit accounts must differ")
	// ErrDuplicatePosting indicates the (reference, debit, credit) key
	// already exists in the journal. Callers absorb it so retried
	// business operations stay safe.
	ErrDuplicatePosting = errors.New("accounting: duplicate posting")
	// ErrEmptyReference indicates a posting without a business event reference.
	ErrEmptyReference = errors.New("accounting: reference id required")
	// ErrUnbalancedSet indicates a multi-leg posting set whose debits and
	// credits do not net to zero across the set.
	ErrUnbalancedSet = errors.New("accounting: posting set must balance")
)
