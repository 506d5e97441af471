package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/pkg/apperror"
)

func TestGrantCreditRespectsLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Moraa", 3000)

	updated, err := env.customers.GrantCredit(ctx, customer.ID, 2000, uuid.New())
	if err != nil {
		t.Fatalf("GrantCredit failed: %v", err)
	}
	if updated.CreditBalance != 2000 {
		t.Errorf("got balance %d, want 2000", updated.CreditBalance)
	}

	// Headroom is 1000; asking for 1500 must be rejected, not clamped.
	if _, err := env.customers.GrantCredit(ctx, customer.ID, 1500, uuid.New()); !errors.Is(err, apperror.ErrCreditLimitExceeded) {
		t.Fatalf("expected ErrCreditLimitExceeded, got %v", err)
	}

	fresh, err := env.customers.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if fresh.CreditBalance != 2000 {
		t.Errorf("balance moved on rejected grant: got %d, want 2000", fresh.CreditBalance)
	}
}

func TestRecordPaymentReducesBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Chebet", 5000)

	if _, err := env.customers.GrantCredit(ctx, customer.ID, 3000, uuid.New()); err != nil {
		t.Fatalf("GrantCredit failed: %v", err)
	}

	// Paying back more than is owed is invalid.
	if _, err := env.customers.RecordPayment(ctx, customer.ID, 4000, uuid.New()); !errors.Is(err, apperror.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	updated, err := env.customers.RecordPayment(ctx, customer.ID, 1200, uuid.New())
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if updated.CreditBalance != 1800 {
		t.Errorf("got balance %d, want 1800", updated.CreditBalance)
	}
}

func TestReconcileBalanceRepairsDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Mutiso", 10000)

	if _, err := env.customers.GrantCredit(ctx, customer.ID, 4000, uuid.New()); err != nil {
		t.Fatalf("GrantCredit failed: %v", err)
	}
	if _, err := env.customers.RecordPayment(ctx, customer.ID, 1500, uuid.New()); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	report, err := env.customers.ReconcileBalance(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ReconcileBalance failed: %v", err)
	}
	if !report.Consistent || report.LedgerBalance != 2500 {
		t.Fatalf("got consistent=%v ledger=%d, want consistent 2500", report.Consistent, report.LedgerBalance)
	}

	// Corrupt the materialized balance; the transaction log stays authoritative.
	if err := env.db.Table("customers").Where("id = ?", customer.ID).
		Update("credit_balance", 9999).Error; err != nil {
		t.Fatalf("failed to corrupt balance: %v", err)
	}

	report, err = env.customers.ReconcileBalance(ctx, customer.ID)
	if err != nil {
		t.Fatalf("ReconcileBalance failed: %v", err)
	}
	if report.Consistent {
		t.Fatal("corrupted balance reported consistent")
	}
	if report.StoredBalance != 9999 || report.LedgerBalance != 2500 {
		t.Errorf("got stored=%d ledger=%d, want 9999/2500", report.StoredBalance, report.LedgerBalance)
	}

	fresh, _ := env.customers.GetCustomer(ctx, customer.ID)
	if fresh.CreditBalance != 2500 {
		t.Errorf("balance not repaired: got %d, want 2500", fresh.CreditBalance)
	}
}

func TestDeleteCustomerBlockedWhileOwing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Wafula", 5000)

	if _, err := env.customers.GrantCredit(ctx, customer.ID, 1000, uuid.New()); err != nil {
		t.Fatalf("GrantCredit failed: %v", err)
	}

	if err := env.customers.DeleteCustomer(ctx, customer.ID); err == nil {
		t.Fatal("expected error deleting customer with outstanding balance")
	}

	if _, err := env.customers.RecordPayment(ctx, customer.ID, 1000, uuid.New()); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	if err := env.customers.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("DeleteCustomer failed after settling: %v", err)
	}

	if _, err := env.customers.GetCustomer(ctx, customer.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}
