package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PurchaseStatus reflects how a purchase entered the system. Purchases are
// permanent once created; mistakes are compensated by correction ledger entries,
// so there is no cancelled or deleted state.
type PurchaseStatus int

const (
	PurchaseStatusReceived PurchaseStatus = 0
	PurchaseStatusImported PurchaseStatus = 1
)

var purchaseStatusNames = map[PurchaseStatus]string{
	PurchaseStatusReceived: "Received",
	PurchaseStatusImported: "Imported",
}

func (s PurchaseStatus) String() string {
	return purchaseStatusNames[s]
}

func (s PurchaseStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either the string name or the raw int value.
func (s *PurchaseStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PurchaseStatus(i)
		return nil
	}
	for status, name := range purchaseStatusNames {
		if name == str {
			*s = status
			return nil
		}
	}
	return nil
}

func (s PurchaseStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PurchaseStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PurchaseStatusReceived
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PurchaseStatus(v)
	case int:
		*s = PurchaseStatus(v)
	}
	return nil
}
