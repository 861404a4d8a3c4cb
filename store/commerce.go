package store

import (
	"context"
	"fmt"
	"strings"

	"glowup-backend/models"
)

// AddToCart inserts the product at quantity 1 or bumps the existing line.
func (s *Store) AddToCart(ctx context.Context, product models.Product) ([]models.CartItem, error) {
	if strings.TrimSpace(product.ID) == "" {
		return nil, validationError("product.id", "is required")
	}
	if product.Price < 0 {
		return nil, validationError("product.price", "must not be negative")
	}

	s.lock()
	defer s.unlock()

	cart := cloneSlice(s.st.cart)
	found := false
	for i := range cart {
		if cart[i].Product.ID == product.ID {
			cart[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartItem{Product: product, Quantity: 1})
	}
	return s.saveCartLocked(ctx, cart)
}

// RemoveFromCart deletes the line for productID. Removing an absent line is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) ([]models.CartItem, error) {
	s.lock()
	defer s.unlock()
	return s.removeFromCartLocked(ctx, productID)
}

func (s *Store) removeFromCartLocked(ctx context.Context, productID string) ([]models.CartItem, error) {
	cart := make([]models.CartItem, 0, len(s.st.cart))
	for _, item := range s.st.cart {
		if item.Product.ID != productID {
			cart = append(cart, item)
		}
	}
	if len(cart) == len(s.st.cart) {
		return cloneSlice(s.st.cart), nil
	}
	return s.saveCartLocked(ctx, cart)
}

// UpdateCartQuantity sets the quantity of a line. A quantity of zero or less
// removes the line.
func (s *Store) UpdateCartQuantity(ctx context.Context, productID string, quantity int) ([]models.CartItem, error) {
	s.lock()
	defer s.unlock()

	if quantity <= 0 {
		return s.removeFromCartLocked(ctx, productID)
	}

	cart := cloneSlice(s.st.cart)
	for i := range cart {
		if cart[i].Product.ID == productID {
			cart[i].Quantity = quantity
			return s.saveCartLocked(ctx, cart)
		}
	}
	return nil, fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.lock()
	defer s.unlock()

	if len(s.st.cart) == 0 {
		return nil
	}
	_, err := s.saveCartLocked(ctx, []models.CartItem{})
	return err
}

func (s *Store) saveCartLocked(ctx context.Context, cart []models.CartItem) ([]models.CartItem, error) {
	b := &batch{}
	b.put(KeyCart, cart)
	if err := s.commit(ctx, b); err != nil {
		return nil, err
	}
	s.st.cart = cart
	return cloneSlice(cart), nil
}

func (s *Store) Cart() []models.CartItem {
	s.lock()
	defer s.unlock()
	return cloneSlice(s.st.cart)
}

// CartTotal is recomputed from the lines on every read.
func (s *Store) CartTotal() float64 {
	s.lock()
	defer s.unlock()
	return models.CartTotal(s.st.cart)
}

// Checkout turns the cart into one order per salon and clears the cart in the
// same write. An empty cart yields no orders. A non-empty paymentProof marks
// the orders as paid.
func (s *Store) Checkout(ctx context.Context, paymentProof string) ([]models.Order, error) {
	s.lock()
	defer s.unlock()

	if s.st.user == nil {
		return nil, ErrNotAuthenticated
	}
	if len(s.st.cart) == 0 {
		return []models.Order{}, nil
	}

	status := models.OrderStatusOrdered
	if paymentProof != "" {
		status = models.OrderStatusPaymentCompleted
	}

	// Partition by salon, keeping the order in which salons first appear.
	var salonOrder []string
	bySalon := make(map[string]*models.Order)
	now := s.now()
	for _, item := range s.st.cart {
		salonID := item.Product.SalonID
		order, ok := bySalon[salonID]
		if !ok {
			order = &models.Order{
				ID:                s.opts.newID(),
				UserID:            s.st.user.ID,
				SalonID:           salonID,
				SalonName:         item.Product.SalonName,
				Status:            status,
				PaymentScreenshot: paymentProof,
				CreatedAt:         now,
			}
			bySalon[salonID] = order
			salonOrder = append(salonOrder, salonID)
		}
		order.Products = append(order.Products, models.OrderProduct{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			Image:     item.Product.Image,
		})
		order.TotalAmount += item.LineTotal()
	}

	placed := make([]models.Order, 0, len(salonOrder))
	orders := cloneSlice(s.st.orders)
	for _, salonID := range salonOrder {
		placed = append(placed, *bySalon[salonID])
		orders = prepend(*bySalon[salonID], orders)
	}

	b := &batch{}
	b.put(KeyOrders, orders)
	b.put(KeyCart, []models.CartItem{})
	if err := s.commit(ctx, b); err != nil {
		return nil, err
	}
	s.st.orders = orders
	s.st.cart = nil
	logger.Infof("user %s placed %d order(s)", s.st.user.ID, len(placed))
	return placed, nil
}

// Orders lists every order on the device, newest first.
func (s *Store) Orders() []models.Order {
	s.lock()
	defer s.unlock()
	return cloneSlice(s.st.orders)
}

// OrdersForUser lists the orders placed by userID.
func (s *Store) OrdersForUser(userID string) []models.Order {
	return s.filterOrders(func(o models.Order) bool { return o.UserID == userID })
}

// OrdersForSalon lists the orders a salon has to fulfil. An empty salonID
// lists every order on the device.
func (s *Store) OrdersForSalon(salonID string) []models.Order {
	return s.filterOrders(func(o models.Order) bool { return salonID == "" || o.SalonID == salonID })
}

func (s *Store) filterOrders(keep func(models.Order) bool) []models.Order {
	s.lock()
	defer s.unlock()

	out := []models.Order{}
	for _, o := range s.st.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// UpdateOrderStatus moves an order forward along
// ordered -> payment_completed -> started -> delivered. Any other move is rejected.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (models.Order, error) {
	if !status.IsValid() {
		return models.Order{}, validationError("status", "is invalid")
	}

	s.lock()
	defer s.unlock()

	return s.updateOrderLocked(ctx, orderID, func(o *models.Order) error {
		if !models.IsForwardOrderTransition(o.Status, status) {
			return fmt.Errorf("%w: order %s from %q to %q", ErrInvalidTransition, orderID, o.Status, status)
		}
		o.Status = status
		return nil
	})
}

// AddTrackingLink records the delivery tracking link and starts the order if
// it has not started yet.
func (s *Store) AddTrackingLink(ctx context.Context, orderID, link string) (models.Order, error) {
	if strings.TrimSpace(link) == "" {
		return models.Order{}, validationError("trackingLink", "is required")
	}

	s.lock()
	defer s.unlock()

	return s.updateOrderLocked(ctx, orderID, func(o *models.Order) error {
		if o.Status == models.OrderStatusDelivered {
			return fmt.Errorf("%w: order %s already delivered", ErrInvalidTransition, orderID)
		}
		o.TrackingLink = link
		if o.Status.Before(models.OrderStatusStarted) {
			o.Status = models.OrderStatusStarted
		}
		return nil
	})
}

func (s *Store) updateOrderLocked(ctx context.Context, orderID string, mutate func(*models.Order) error) (models.Order, error) {
	orders := cloneSlice(s.st.orders)
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if err := mutate(&orders[i]); err != nil {
			return models.Order{}, err
		}
		b := &batch{}
		b.put(KeyOrders, orders)
		if err := s.commit(ctx, b); err != nil {
			return models.Order{}, err
		}
		s.st.orders = orders
		return orders[i], nil
	}
	return models.Order{}, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
}
