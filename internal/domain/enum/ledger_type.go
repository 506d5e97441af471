package enum

// LedgerType is the business reason for a stock movement.
type LedgerType string

const (
	LedgerTypePurchase   LedgerType = "purchase"
	LedgerTypeSale       LedgerType = "sale"
	LedgerTypeAdjustment LedgerType = "adjustment"
	LedgerTypeReturn     LedgerType = "return"
	LedgerTypeCorrection LedgerType = "correction"
)

// IsValid reports whether t is a known ledger transaction type.
func (t LedgerType) IsValid() bool {
	switch t {
	case LedgerTypePurchase, LedgerTypeSale, LedgerTypeAdjustment, LedgerTypeReturn, LedgerTypeCorrection:
		return true
	}
	return false
}

// ReferenceType names the kind of record a ledger entry points back to.
type ReferenceType string

const (
	ReferenceTypeOrder       ReferenceType = "order"
	ReferenceTypeOrderItem   ReferenceType = "order_item"
	ReferenceTypePurchase    ReferenceType = "purchase"
	ReferenceTypeLedgerEntry ReferenceType = "ledger_entry"
	ReferenceTypeManual      ReferenceType = "manual"
)
