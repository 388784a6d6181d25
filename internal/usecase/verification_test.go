package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
)

func TestVerifyValidMovesOrderToProcessing(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Risoles", 1000, 5)
	order := f.placeOrder(t, p.ID, 1)
	ctx := context.Background()

	payment, err := f.verificationUseCase().Verify(ctx, f.admin, order.Payment.ID, model.PaymentStatusValid, "  transfer received ")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payment.Status != model.PaymentStatusValid {
		t.Fatalf("unexpected payment status %s", payment.Status)
	}
	if payment.AdminID == nil || *payment.AdminID != f.admin.UserID || payment.VerifiedAt == nil {
		t.Fatalf("reviewer not recorded: %+v", payment)
	}
	if payment.Notes == nil || *payment.Notes != "transfer received" {
		t.Fatalf("unexpected notes %v", payment.Notes)
	}
	if payment.Order == nil || payment.Order.Status != model.OrderStatusProcessingBySeller {
		t.Fatalf("unexpected order in result: %+v", payment.Order)
	}

	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != model.OrderStatusProcessingBySeller {
		t.Fatalf("order status %s", stored.Status)
	}
	if len(f.cache.Invalidated) != 1 || f.cache.Invalidated[0] != order.TrackingCode {
		t.Fatalf("expected cache invalidation for %s, got %v", order.TrackingCode, f.cache.Invalidated)
	}
}

func TestVerifyInvalidCancelsOrder(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Risoles", 1000, 5)
	order := f.placeOrder(t, p.ID, 1)
	ctx := context.Background()

	payment, err := f.verificationUseCase().Verify(ctx, f.admin, order.Payment.ID, model.PaymentStatusInvalid, "")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payment.Status != model.PaymentStatusInvalid || payment.Notes != nil {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	stored, _ := f.store.Orders().GetByID(ctx, order.ID)
	if stored.Status != model.OrderStatusCancelled {
		t.Fatalf("order status %s", stored.Status)
	}
}

func TestVerifyTwiceIsRejected(t *testing.T) {
	for _, second := range []model.PaymentStatus{model.PaymentStatusValid, model.PaymentStatusInvalid} {
		t.Run(string(second), func(t *testing.T) {
			f := newFixture(t)
			p := f.product(t, "Risoles", 1000, 5)
			order := f.placeOrder(t, p.ID, 1)
			uc := f.verificationUseCase()
			ctx := context.Background()

			if _, err := uc.Verify(ctx, f.admin, order.Payment.ID, model.PaymentStatusValid, ""); err != nil {
				t.Fatalf("first verify: %v", err)
			}
			if _, err := uc.Verify(ctx, f.admin, order.Payment.ID, second, ""); !errors.Is(err, domainErrors.ErrIllegalTransition) {
				t.Fatalf("expected illegal transition, got %v", err)
			}

			payment, _ := f.store.Payments().GetByID(ctx, order.Payment.ID)
			if payment.Status != model.PaymentStatusValid {
				t.Fatalf("payment changed to %s", payment.Status)
			}
			stored, _ := f.store.Orders().GetByID(ctx, order.ID)
			if stored.Status != model.OrderStatusProcessingBySeller {
				t.Fatalf("order changed to %s", stored.Status)
			}
		})
	}
}

func TestVerifyRejections(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Risoles", 1000, 5)
	order := f.placeOrder(t, p.ID, 1)
	uc := f.verificationUseCase()
	ctx := context.Background()

	tests := []struct {
		name      string
		principal model.Principal
		paymentID int64
		decision  model.PaymentStatus
		want      error
	}{
		{"anonymous", model.Principal{}, order.Payment.ID, model.PaymentStatusValid, domainErrors.ErrForbidden},
		{"seller", f.seller, order.Payment.ID, model.PaymentStatusValid, domainErrors.ErrForbidden},
		{"pending is not a decision", f.admin, order.Payment.ID, model.PaymentStatusAwaitingVerification, domainErrors.ErrValidation},
		{"unknown decision", f.admin, order.Payment.ID, model.PaymentStatus("maybe"), domainErrors.ErrValidation},
		{"unknown payment", f.admin, 999, model.PaymentStatusValid, domainErrors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Verify(ctx, tt.principal, tt.paymentID, tt.decision, ""); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	stored, _ := f.store.Orders().GetByID(ctx, order.ID)
	if stored.Status != model.OrderStatusAwaitingVerification {
		t.Fatalf("rejected calls changed order to %s", stored.Status)
	}
}

func TestVerifyCascadeFailureKeepsPaymentPending(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Risoles", 1000, 5)
	order := f.placeOrder(t, p.ID, 1)
	ctx := context.Background()

	// Push the order out of awaiting_verification behind the payment's back.
	if err := f.store.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusAwaitingVerification, model.OrderStatusCancelled); err != nil {
		t.Fatalf("prepare order: %v", err)
	}

	if _, err := f.verificationUseCase().Verify(ctx, f.admin, order.Payment.ID, model.PaymentStatusValid, ""); !errors.Is(err, domainErrors.ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
	payment, _ := f.store.Payments().GetByID(ctx, order.Payment.ID)
	if payment.Status != model.PaymentStatusAwaitingVerification || payment.AdminID != nil {
		t.Fatalf("payment update must roll back with the order: %+v", payment)
	}
}

func TestListPendingPayments(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Risoles", 1000, 5)
	first := f.placeOrder(t, p.ID, 1)
	second := f.placeOrder(t, p.ID, 2)
	uc := f.verificationUseCase()
	ctx := context.Background()

	if _, err := uc.ListPending(ctx, f.seller); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	pending, err := uc.ListPending(ctx, f.admin)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != first.Payment.ID {
		t.Fatalf("unexpected pending queue: %+v", pending)
	}
	if pending[1].Order == nil || pending[1].Order.TrackingCode != second.TrackingCode || len(pending[1].Order.Items) != 1 {
		t.Fatalf("pending payment misses its order: %+v", pending[1].Order)
	}

	if _, err := uc.Verify(ctx, f.admin, first.Payment.ID, model.PaymentStatusValid, ""); err != nil {
		t.Fatalf("verify: %v", err)
	}
	pending, err = uc.ListPending(ctx, f.admin)
	if err != nil || len(pending) != 1 || pending[0].ID != second.Payment.ID {
		t.Fatalf("unexpected queue after verify: %+v err=%v", pending, err)
	}
}

func TestConcurrentVerifyAppliesOnce(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Risoles", 1000, 5)
	order := f.placeOrder(t, p.ID, 1)
	uc := f.verificationUseCase()
	ctx := context.Background()

	const attempts = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  []model.PaymentStatus
		rejected int
		others   []error
	)
	for i := 0; i < attempts; i++ {
		decision := model.PaymentStatusValid
		if i%2 == 1 {
			decision = model.PaymentStatusInvalid
		}
		wg.Add(1)
		go func(decision model.PaymentStatus) {
			defer wg.Done()
			_, err := uc.Verify(ctx, f.admin, order.Payment.ID, decision, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, decision)
			case errors.Is(err, domainErrors.ErrIllegalTransition):
				rejected++
			default:
				others = append(others, err)
			}
		}(decision)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if len(winners) != 1 || rejected != attempts-1 {
		t.Fatalf("expected one applied verdict, got %d applied and %d rejected", len(winners), rejected)
	}

	want, _ := winners[0].OrderStatus()
	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.Status != want {
		t.Fatalf("order status %s, want %s", stored.Status, want)
	}
	payment, err := f.store.Payments().GetByOrderID(ctx, order.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if payment.Status != winners[0] {
		t.Fatalf("payment status %s, want %s", payment.Status, winners[0])
	}
	if len(f.cache.Invalidated) != 1 {
		t.Fatalf("expected one cache invalidation, got %v", f.cache.Invalidated)
	}
}
