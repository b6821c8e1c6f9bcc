package orders

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loeylei-cell/my-fullstack-system/models"
	"github.com/loeylei-cell/my-fullstack-system/store/memstore"
	"github.com/loeylei-cell/my-fullstack-system/uploads"
)

func newTestService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	mem := memstore.New()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewService(mem.Products, mem.Orders, mem.Carts, mem.Users, uploads.NewStorage(t.TempDir()), log)
	return svc, mem
}

func seedUser(t *testing.T, mem *memstore.Store, id string) {
	t.Helper()
	require.NoError(t, mem.Users.Create(context.Background(), &models.User{ID: id, Username: id}))
}

func seedProduct(t *testing.T, mem *memstore.Store, id, name string, price float64, stock int) {
	t.Helper()
	require.NoError(t, mem.Products.Create(context.Background(), &models.Product{
		ID: id, Name: name, Price: price, Stock: stock, IsActive: true, Condition: "Good",
	}))
}

func proof(name string) uploads.File {
	content := "fake image bytes"
	return uploads.File{Name: name, Size: int64(len(content)), Reader: strings.NewReader(content)}
}

func stockOf(t *testing.T, mem *memstore.Store, id string) int {
	t.Helper()
	p, err := mem.Products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func createOrder(t *testing.T, svc *Service, userID string, items ...LineItem) *models.Order {
	t.Helper()
	order, err := svc.Create(context.Background(), CreateRequest{
		UserID:        userID,
		Items:         items,
		PaymentMethod: "gcash",
		ShippingAddress: models.Address{
			FullName: "Maria Santos", Street: "123 Mabini St", City: "Cebu City", Province: "Cebu",
		},
	})
	require.NoError(t, err)
	return order
}

func TestHappyPath(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Vintage Denim Jacket", 450, 5)

	// Creation checks stock but deducts nothing.
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 2})
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.StockDeducted)
	assert.Equal(t, 5, stockOf(t, mem, "p1"))
	assert.Equal(t, 450.0*2, order.Subtotal)
	assert.Equal(t, "Visayas", order.ShippingRegion)
	assert.Equal(t, 120.0, order.ShippingFee)
	assert.Equal(t, order.Subtotal+order.ShippingFee, order.Total)
	assert.Regexp(t, `^ORD-\d{8}-[0-9a-f]{12}$`, order.OrderNumber)

	// Proof upload is the commit point: stock off, flag set, still pending.
	updated, err := svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("gcash.jpg")})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, mem, "p1"))
	assert.True(t, updated.StockDeducted)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
	assert.NotEmpty(t, updated.PaymentProof)

	// Admin walks the pipeline to shipped.
	shipped, err := svc.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)

	// Customer confirms receipt with photo proof.
	done, err := svc.ConfirmReceipt(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("door.png")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, done.Status)
	assert.NotEmpty(t, done.ReceiptProof)
	assert.NotNil(t, done.ReceiptConfirmedAt)
}

func TestCreateInsufficientStock(t *testing.T) {
	svc, mem := newTestService(t)
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Corduroy Pants", 250, 1)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID:        "u1",
		Items:         []LineItem{{ProductID: "p1", Quantity: 2}},
		PaymentMethod: "gcash",
	})
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)

	// no order persisted
	list, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateRejectsMissingOrInactiveProduct(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")

	_, err := svc.Create(ctx, CreateRequest{
		UserID: "u1", PaymentMethod: "gcash",
		Items: []LineItem{{ProductID: "ghost", Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, mem.Products.Create(ctx, &models.Product{
		ID: "p1", Name: "Retired Item", Price: 100, Stock: 3, IsActive: false,
	}))
	_, err = svc.Create(ctx, CreateRequest{
		UserID: "u1", PaymentMethod: "gcash",
		Items: []LineItem{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateRejectsUnknownUser(t *testing.T) {
	svc, mem := newTestService(t)
	seedProduct(t, mem, "p1", "Scarf", 99, 3)

	_, err := svc.Create(context.Background(), CreateRequest{
		UserID: "nobody", PaymentMethod: "gcash",
		Items: []LineItem{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProofUploadIsIdempotent(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Band Tee", 180, 5)
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 2})

	_, err := svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("first.jpg")})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, mem, "p1"))

	// Retried upload succeeds but deducts nothing more.
	again, err := svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("retry.jpg")})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, mem, "p1"))
	assert.True(t, again.StockDeducted)
}

func TestStockDrainedBetweenCreationAndProof(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedUser(t, mem, "u2")
	seedProduct(t, mem, "p1", "Leather Boots", 800, 2)

	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 2})

	// Another order's commit drains the stock first.
	rival := createOrder(t, svc, "u2", LineItem{ProductID: "p1", Quantity: 2})
	_, err := svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: rival.ID, UserID: "u2", Proof: proof("rival.jpg")})
	require.NoError(t, err)
	require.Equal(t, 0, stockOf(t, mem, "p1"))

	_, err = svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("late.jpg")})
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)

	// Nothing committed: flag still false, stock untouched.
	reread, err := mem.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, reread.StockDeducted)
	assert.Equal(t, 0, stockOf(t, mem, "p1"))
}

func TestProofUploadOwnershipAndValidation(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Windbreaker", 300, 4)
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 1})

	_, err := svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "intruder", Proof: proof("x.jpg")})
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	var vErr *models.ValidationError
	_, err = svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("receipt.pdf")})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: uploads.File{}})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.SubmitPaymentProof(ctx, ProofRequest{
		OrderID: order.ID, UserID: "u1",
		Proof: uploads.File{Name: "big.png", Size: uploads.MaxProofSize + 1, Reader: strings.NewReader("x")},
	})
	require.ErrorAs(t, err, &vErr)

	// none of the rejected attempts deducted stock
	assert.Equal(t, 4, stockOf(t, mem, "p1"))
}

func TestAdminStatusAllowList(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Flannel Shirt", 150, 3)
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 1})

	for _, target := range []string{"confirmed", "processing", "shipped", "pending"} {
		_, err := svc.UpdateStatus(ctx, order.ID, target)
		require.NoError(t, err, target)
	}

	// completed is customer-only; unknown values are rejected at the boundary
	_, err := svc.UpdateStatus(ctx, order.ID, "completed")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = svc.UpdateStatus(ctx, order.ID, "cancelled")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
	_, err = svc.UpdateStatus(ctx, order.ID, "")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	// no stock side effects from admin transitions
	assert.Equal(t, 3, stockOf(t, mem, "p1"))
}

func TestConfirmReceiptRequiresShipped(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Tote Bag", 120, 2)
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 1})

	for _, status := range []string{"pending", "confirmed", "processing"} {
		_, err := svc.UpdateStatus(ctx, order.ID, status)
		require.NoError(t, err)
		_, err = svc.ConfirmReceipt(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("p.jpg")})
		assert.ErrorIs(t, err, models.ErrInvalidTransition, status)
	}

	_, err := svc.UpdateStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)

	_, err = svc.ConfirmReceipt(ctx, ProofRequest{OrderID: order.ID, UserID: "someone-else", Proof: proof("p.jpg")})
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	done, err := svc.ConfirmReceipt(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("p.jpg")})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, done.Status)

	// completed is terminal: a second confirmation fails
	_, err = svc.ConfirmReceipt(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("p.jpg")})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestOrderItemsAreSnapshots(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Wool Coat", 999, 3)
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 1})

	// Reprice and rename the live product after checkout.
	p, err := mem.Products.FindByID(ctx, "p1")
	require.NoError(t, err)
	p.Price = 1
	p.Name = "Clearance Coat"
	require.NoError(t, mem.Products.Update(ctx, p))

	reread, err := svc.GetForUser(ctx, order.ID, "u1")
	require.NoError(t, err)
	require.Len(t, reread.Items, 1)
	assert.Equal(t, 999.0, reread.Items[0].Price)
	assert.Equal(t, "Wool Coat", reread.Items[0].Name)
	assert.Equal(t, 999.0, reread.Subtotal)
}

func TestCheckoutRemovesOrderedCartLines(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Cap", 90, 5)
	seedProduct(t, mem, "p2", "Belt", 110, 5)

	require.NoError(t, mem.Carts.AddItem(ctx, "u1", "p1", 1))
	require.NoError(t, mem.Carts.AddItem(ctx, "u1", "p2", 1))

	createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 1})

	cart, err := mem.Carts.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}

func TestConcurrentCommitsNeverOversell(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedProduct(t, mem, "p1", "Rare Jersey", 500, 5)

	const attempts = 20
	orderIDs := make([]string, attempts)
	for i := 0; i < attempts; i++ {
		user := fmt.Sprintf("u%d", i)
		seedUser(t, mem, user)
		orderIDs[i] = createOrder(t, svc, user, LineItem{ProductID: "p1", Quantity: 1}).ID
	}
	// All 20 passed the advisory check against stock=5; only 5 may commit.

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.SubmitPaymentProof(ctx, ProofRequest{
				OrderID: orderIDs[i],
				UserID:  fmt.Sprintf("u%d", i),
				Proof:   proof("pay.jpg"),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			var stockErr *models.InsufficientStockError
			assert.ErrorAs(t, err, &stockErr)
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, stockOf(t, mem, "p1"))
}

func TestConcurrentProofUploadsForSameOrderDeductOnce(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Cardigan", 260, 10)
	order := createOrder(t, svc, "u1", LineItem{ProductID: "p1", Quantity: 3})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitPaymentProof(ctx, ProofRequest{OrderID: order.ID, UserID: "u1", Proof: proof("pay.jpg")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, stockOf(t, mem, "p1"))
}

func TestDefaultShippingForUnknownProvince(t *testing.T) {
	svc, mem := newTestService(t)
	seedUser(t, mem, "u1")
	seedProduct(t, mem, "p1", "Beanie", 80, 2)

	order, err := svc.Create(context.Background(), CreateRequest{
		UserID: "u1", PaymentMethod: "cod",
		Items:           []LineItem{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: models.Address{Province: "Somewhere Abroad"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Unknown Region", order.ShippingRegion)
	assert.Equal(t, 120.0, order.ShippingFee)
}
