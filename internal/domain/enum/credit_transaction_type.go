package enum

// CreditTransactionType marks whether a credit transaction grows or shrinks a
// customer's outstanding balance.
type CreditTransactionType string

const (
	CreditTransactionCredit  CreditTransactionType = "credit"
	CreditTransactionPayment CreditTransactionType = "payment"
)

// IsValid reports whether t is a known credit transaction type.
func (t CreditTransactionType) IsValid() bool {
	return t == CreditTransactionCredit || t == CreditTransactionPayment
}
