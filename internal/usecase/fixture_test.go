package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/pkg/trackcode"
	"github.com/zulfalsa/danusan-x/internal/storage/memory"
	testhelpers "github.com/zulfalsa/danusan-x/internal/test"
)

var (
	pngImage  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegImage = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

type fixture struct {
	store  *memory.Storage
	blobs  *testhelpers.BlobStoreStub
	cache  *testhelpers.CacheStub
	seller model.Principal
	admin  model.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	seller, err := store.Users().Create(ctx, "seller", "hash", model.RoleSeller)
	if err != nil {
		t.Fatalf("create seller: %v", err)
	}
	admin, err := store.Users().Create(ctx, "admin", "hash", model.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return &fixture{
		store:  store,
		blobs:  &testhelpers.BlobStoreStub{},
		cache:  &testhelpers.CacheStub{},
		seller: model.Principal{UserID: seller.ID, Role: model.RoleSeller},
		admin:  model.Principal{UserID: admin.ID, Role: model.RoleAdmin},
	}
}

func (f *fixture) product(t *testing.T, name string, price int64, stock int) *model.Product {
	t.Helper()
	p, err := f.store.Products().Create(context.Background(), &model.Product{
		SellerID: f.seller.UserID,
		Name:     name,
		Category: "snack",
		Price:    price,
		Stock:    stock,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func (f *fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get product %d: %v", id, err)
	}
	return p.Stock
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	orders, err := f.store.Orders().ListByStatus(context.Background(),
		model.OrderStatusAwaitingVerification,
		model.OrderStatusProcessingBySeller,
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
	)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	return len(orders)
}

func (f *fixture) checkoutUseCase(policy Policy, codes CodeGenerator) *CheckoutUseCase {
	if codes == nil {
		codes = trackcode.New(trackcode.DefaultLength)
	}
	return NewCheckoutUseCase(f.store, f.blobs, codes, policy, testhelpers.DiscardLogger())
}

func (f *fixture) verificationUseCase() *VerificationUseCase {
	return NewVerificationUseCase(f.store, f.cache, testhelpers.DiscardLogger())
}

func (f *fixture) fulfillmentUseCase() *FulfillmentUseCase {
	return NewFulfillmentUseCase(f.store, f.cache, testhelpers.DiscardLogger())
}

func (f *fixture) trackingUseCase() *TrackingUseCase {
	return NewTrackingUseCase(f.store, f.cache, testhelpers.DiscardLogger())
}

// placeOrder checks out qty units of product with a proof attached.
func (f *fixture) placeOrder(t *testing.T, productID int64, qty int) *model.Order {
	t.Helper()
	order, err := f.checkoutUseCase(defaultPolicy, nil).Checkout(context.Background(), checkoutInput(proof(), CartLine{ProductID: productID, Quantity: qty}))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return order
}

var defaultPolicy = Policy{RequireProof: true, MaxUploadBytes: 1 << 20}

func proof() *Upload {
	return &Upload{Data: pngImage}
}

func buyer() model.Buyer {
	return model.Buyer{Name: "Siti", Phone: "08123456789", Address: "Jl. Merdeka 1", Notes: "no spicy"}
}

func checkoutInput(p *Upload, lines ...CartLine) CheckoutInput {
	return CheckoutInput{Buyer: buyer(), Items: lines, Proof: p}
}

// codeSequence hands out the configured codes in order and then repeats the
// last one.
type codeSequence struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (c *codeSequence) Generate() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.codes) == 0 {
		return "", fmt.Errorf("no codes configured")
	}
	idx := min(c.calls, len(c.codes)-1)
	c.calls++
	return c.codes[idx], nil
}
