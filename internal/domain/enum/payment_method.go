package enum

// PaymentMethod is the settlement choice made at the till. "credit" is only the
// initiating method; the outstanding balance itself is always carried by the
// order's credit_amount, never re-derived from the method.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodDigital PaymentMethod = "digital"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodCredit  PaymentMethod = "credit"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodDigital, PaymentMethodCard, PaymentMethodCredit:
		return true
	}
	return false
}
