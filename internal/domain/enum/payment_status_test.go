package enum_test

import (
	"testing"

	"github.com/marumbi/kahawa-api/internal/domain/enum"
)

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		name   string
		total  int64
		paid   int64
		credit int64
		want   enum.PaymentStatus
	}{
		{"untouched order", 1000, 0, 0, enum.PaymentStatusUnpaid},
		{"empty order never paid", 0, 0, 0, enum.PaymentStatusUnpaid},
		{"full payment", 1000, 1000, 0, enum.PaymentStatusPaid},
		{"partial payment", 1000, 400, 600, enum.PaymentStatusPartial},
		{"all on credit", 1000, 0, 1000, enum.PaymentStatusUnpaid},
		{"credit cleared", 1000, 1000, 0, enum.PaymentStatusPaid},
		{"credit remaining blocks paid", 1000, 1000, 200, enum.PaymentStatusUnpaid},
		{"partway through repayment", 1000, 700, 300, enum.PaymentStatusPartial},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := enum.DerivePaymentStatus(tc.total, tc.paid, tc.credit); got != tc.want {
				t.Errorf("DerivePaymentStatus(%d, %d, %d) = %s, want %s",
					tc.total, tc.paid, tc.credit, got, tc.want)
			}
		})
	}
}
