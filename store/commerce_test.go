package store

import (
	"context"
	"errors"
	"testing"

	"glowup-backend/models"
)

func product(id, salonID string, price float64) models.Product {
	return models.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     price,
		SalonID:   salonID,
		SalonName: "Salon " + salonID,
	}
}

func TestAddSameProductTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := product("p", "s1", 100)

	env.store.AddToCart(ctx, p)
	cart, err := env.store.AddToCart(ctx, p)
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if len(cart) != 1 || cart[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", cart)
	}
	if total := env.store.CartTotal(); total != 200 {
		t.Errorf("expected total 200, got %v", total)
	}

	if _, err := env.store.RemoveFromCart(ctx, "p"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(env.store.Cart()) != 0 || env.store.CartTotal() != 0 {
		t.Errorf("expected empty cart with total 0, got %+v", env.store.Cart())
	}
}

func TestUpdateCartQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.AddToCart(ctx, product("a", "s1", 10))
	env.store.AddToCart(ctx, product("b", "s1", 3))

	cart, err := env.store.UpdateCartQuantity(ctx, "a", 4)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if cart[0].Quantity != 4 || env.store.CartTotal() != 43 {
		t.Errorf("expected quantity 4 and total 43, got %+v total %v", cart, env.store.CartTotal())
	}

	if _, err := env.store.UpdateCartQuantity(ctx, "a", 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if _, err := env.store.UpdateCartQuantity(ctx, "b", -2); err != nil {
		t.Fatalf("update to negative: %v", err)
	}
	if len(env.store.Cart()) != 0 {
		t.Errorf("expected quantities <= 0 to remove lines, got %+v", env.store.Cart())
	}

	if _, err := env.store.RemoveFromCart(ctx, "missing"); err != nil {
		t.Errorf("expected removing an absent line to be a no-op, got %v", err)
	}
	if _, err := env.store.UpdateCartQuantity(ctx, "missing", 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCartQuantitiesStayPositive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, q := range []int{3, 0, 1, -1, 5} {
		env.store.AddToCart(ctx, product("p", "s1", 1))
		env.store.UpdateCartQuantity(ctx, "p", q)
		for _, item := range env.store.Cart() {
			if item.Quantity < 1 {
				t.Fatalf("cart line with quantity %d after setting %d", item.Quantity, q)
			}
		}
	}
}

func TestAddToCartValidation(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.store.AddToCart(context.Background(), models.Product{Price: 10}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for missing id, got %v", err)
	}
	if _, err := env.store.AddToCart(context.Background(), models.Product{ID: "x", Price: -1}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for negative price, got %v", err)
	}
}

func TestCheckoutPartitionsBySalon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := signupUser(t, env.store, "checkout@test.com")

	env.store.AddToCart(ctx, product("a1", "salon-a", 100))
	env.store.AddToCart(ctx, product("b1", "salon-b", 50))
	env.store.AddToCart(ctx, product("a2", "salon-a", 25))
	env.store.UpdateCartQuantity(ctx, "a2", 2)

	placed, err := env.store.Checkout(ctx, "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(placed) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(placed))
	}

	first, second := placed[0], placed[1]
	if first.SalonID != "salon-a" || second.SalonID != "salon-b" {
		t.Errorf("expected salons in first-appearance order, got %s, %s", first.SalonID, second.SalonID)
	}
	if len(first.Products) != 2 || first.TotalAmount != 150 {
		t.Errorf("expected salon-a order with 2 lines totalling 150, got %+v", first)
	}
	if second.TotalAmount != 50 {
		t.Errorf("expected salon-b total 50, got %v", second.TotalAmount)
	}
	for _, o := range placed {
		if o.Status != models.OrderStatusOrdered {
			t.Errorf("expected status ordered, got %s", o.Status)
		}
		if o.UserID != user.ID {
			t.Errorf("expected order for %s, got %s", user.ID, o.UserID)
		}
		if !o.CreatedAt.Equal(testStart) {
			t.Errorf("expected createdAt %v, got %v", testStart, o.CreatedAt)
		}
	}

	if len(env.store.Cart()) != 0 {
		t.Error("expected cart cleared after checkout")
	}
	if len(env.store.OrdersForSalon("salon-a")) != 1 || len(env.store.OrdersForUser(user.ID)) != 2 {
		t.Error("expected orders to be queryable by salon and user")
	}
	if len(env.store.OrdersForSalon("")) != 2 || len(env.store.OrdersForSalon("salon-z")) != 0 {
		t.Error("expected an empty salon id to list every order and an unknown one none")
	}

	again, err := env.store.Checkout(ctx, "")
	if err != nil || len(again) != 0 {
		t.Errorf("expected re-checkout to produce zero orders, got %d (%v)", len(again), err)
	}
}

func TestCheckoutWithPaymentProof(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupUser(t, env.store, "paid@test.com")
	env.store.AddToCart(ctx, product("p", "s1", 10))

	placed, err := env.store.Checkout(ctx, "https://cdn.example.com/receipt.png")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if placed[0].Status != models.OrderStatusPaymentCompleted {
		t.Errorf("expected payment_completed, got %s", placed[0].Status)
	}
	if placed[0].PaymentScreenshot == "" {
		t.Error("expected payment screenshot on the order")
	}
}

func TestCheckoutRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.AddToCart(ctx, product("p", "s1", 10))

	if _, err := env.store.Checkout(ctx, ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(env.store.Cart()) != 1 {
		t.Error("expected cart untouched")
	}
}

func TestOrderStatusMovesForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupUser(t, env.store, "orders@test.com")
	env.store.AddToCart(ctx, product("p", "s1", 10))
	placed, _ := env.store.Checkout(ctx, "")
	id := placed[0].ID

	order, err := env.store.UpdateOrderStatus(ctx, id, models.OrderStatusStarted)
	if err != nil || order.Status != models.OrderStatusStarted {
		t.Fatalf("expected started, got %s (%v)", order.Status, err)
	}

	for _, back := range []models.OrderStatus{models.OrderStatusPaymentCompleted, models.OrderStatusOrdered, models.OrderStatusStarted} {
		if _, err := env.store.UpdateOrderStatus(ctx, id, back); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition moving to %s, got %v", back, err)
		}
	}
	if got := env.store.Orders()[0].Status; got != models.OrderStatusStarted {
		t.Errorf("expected status to stay started, got %s", got)
	}

	if _, err := env.store.UpdateOrderStatus(ctx, id, models.OrderStatusDelivered); err != nil {
		t.Errorf("expected delivered, got %v", err)
	}
	if _, err := env.store.UpdateOrderStatus(ctx, "nope", models.OrderStatusDelivered); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.store.UpdateOrderStatus(ctx, id, "shipped"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestAddTrackingLinkStartsOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	signupUser(t, env.store, "tracking@test.com")
	env.store.AddToCart(ctx, product("p", "s1", 10))
	placed, _ := env.store.Checkout(ctx, "proof")

	order, err := env.store.AddTrackingLink(ctx, placed[0].ID, "https://track.example.com/123")
	if err != nil {
		t.Fatalf("add tracking: %v", err)
	}
	if order.Status != models.OrderStatusStarted || order.TrackingLink == "" {
		t.Errorf("expected started order with link, got %+v", order)
	}

	env.store.UpdateOrderStatus(ctx, order.ID, models.OrderStatusDelivered)
	if _, err := env.store.AddTrackingLink(ctx, order.ID, "https://track.example.com/456"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition on delivered order, got %v", err)
	}
}
