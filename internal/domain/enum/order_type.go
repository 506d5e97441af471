package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderType distinguishes dine-in orders (bound to a table) from takeaway
type OrderType int

const (
	OrderTypeDineIn   OrderType = 0
	OrderTypeTakeaway OrderType = 1
)

func (t OrderType) String() string {
	return [...]string{"DineIn", "Takeaway"}[t]
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = OrderType(i)
		return nil
	}
	switch str {
	case "DineIn":
		*t = OrderTypeDineIn
	case "Takeaway":
		*t = OrderTypeTakeaway
	}
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	if value == nil {
		*t = OrderTypeDineIn
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = OrderType(v)
	case int:
		*t = OrderType(v)
	}
	return nil
}
