package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

// memStore is an in-memory stand-in for the mysql repositories. Its mutex
// plays the role of the checkout transaction's row locks: every cart and
// order mutation is serialized the way the database serializes them, so the
// service-level tests exercise the same contract the real store provides.
type memStore struct {
	mu            sync.Mutex
	products      map[int]*entity.Product
	cartItems     map[int]map[int]*entity.CartItem // buyerID -> itemID -> item
	orders        map[int]*entity.Order
	reviews       map[int]*entity.Review
	nextItemID    int
	nextOrder     int
	nextProductID int
	nextReviewID  int
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[int]*entity.Product),
		cartItems: make(map[int]map[int]*entity.CartItem),
		orders:    make(map[int]*entity.Order),
		reviews:   make(map[int]*entity.Review),
	}
}

func (m *memStore) addProduct(p entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.products[p.ID] = &cp
	if p.ID > m.nextProductID {
		m.nextProductID = p.ID
	}
}

func (m *memStore) setPrice(productID int, price decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[productID].Price = price
}

func (m *memStore) stock(productID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productID].Stock
}

func (m *memStore) items(buyerID int) map[int]*entity.CartItem {
	if m.cartItems[buyerID] == nil {
		m.cartItems[buyerID] = make(map[int]*entity.CartItem)
	}
	return m.cartItems[buyerID]
}

// --- repository.CartRepository ---

func (m *memStore) GetOrCreateCart(ctx context.Context, buyerID int) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart := &entity.Cart{ID: buyerID, BuyerID: buyerID}
	for _, item := range m.items(buyerID) {
		p := m.products[item.ProductID]
		view := *item
		view.Title = p.Title
		view.UnitPrice = p.FinalPrice()
		view.Stock = p.Stock
		cart.Items = append(cart.Items, view)
	}
	return cart, nil
}

func (m *memStore) AddItem(ctx context.Context, buyerID, productID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		return repository.ErrInvalidInput
	}
	p, ok := m.products[productID]
	if !ok || !p.IsActive || !p.IsApproved {
		return repository.ErrNotFound
	}

	var existing *entity.CartItem
	for _, item := range m.items(buyerID) {
		if item.ProductID == productID {
			existing = item
		}
	}

	total := quantity
	if existing != nil {
		total += existing.Quantity
	}
	if total > p.Stock {
		return &repository.InsufficientStockError{ProductID: productID, Title: p.Title, Requested: total, Available: p.Stock}
	}

	if existing != nil {
		existing.Quantity = total
		return nil
	}
	m.nextItemID++
	m.items(buyerID)[m.nextItemID] = &entity.CartItem{ID: m.nextItemID, ProductID: productID, Quantity: quantity}
	return nil
}

func (m *memStore) UpdateItem(ctx context.Context, buyerID, itemID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items(buyerID)[itemID]
	if !ok {
		return repository.ErrNotFound
	}
	if quantity <= 0 {
		delete(m.items(buyerID), itemID)
		return nil
	}
	p := m.products[item.ProductID]
	if quantity > p.Stock {
		return &repository.InsufficientStockError{ProductID: p.ID, Title: p.Title, Requested: quantity, Available: p.Stock}
	}
	item.Quantity = quantity
	return nil
}

func (m *memStore) RemoveItem(ctx context.Context, buyerID, itemID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items(buyerID)[itemID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items(buyerID), itemID)
	return nil
}

func (m *memStore) ClearCart(ctx context.Context, buyerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartItems[buyerID] = make(map[int]*entity.CartItem)
	return nil
}

// --- repository.OrderRepository ---

func (m *memStore) CheckoutCart(ctx context.Context, buyerID int, info repository.CheckoutInfo) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.items(buyerID)
	if len(items) == 0 {
		return nil, repository.ErrEmptyCart
	}

	for _, item := range items {
		p := m.products[item.ProductID]
		if item.Quantity > p.Stock {
			return nil, &repository.InsufficientStockError{ProductID: p.ID, Title: p.Title, Requested: item.Quantity, Available: p.Stock}
		}
	}

	m.nextOrder++
	order := &entity.Order{
		ID:              m.nextOrder,
		OrderNumber:     "MS-TEST",
		BuyerID:         buyerID,
		Status:          entity.StatusPending,
		ShippingAddress: info.ShippingAddress,
		ShippingPhone:   info.ShippingPhone,
		Notes:           info.Notes,
	}

	total := decimal.Zero
	for _, item := range items {
		p := m.products[item.ProductID]
		price := p.FinalPrice()
		order.Items = append(order.Items, entity.OrderItem{
			OrderID:   order.ID,
			ProductID: p.ID,
			SellerID:  p.SellerID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		p.Stock -= item.Quantity
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.TotalAmount = total

	m.cartItems[buyerID] = make(map[int]*entity.CartItem)
	m.orders[order.ID] = order
	return order, nil
}

func (m *memStore) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *memStore) ListOrdersByBuyer(ctx context.Context, buyerID int) ([]entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []entity.Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *memStore) ListOrdersBySeller(ctx context.Context, sellerID int) ([]entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []entity.Order
	for _, o := range m.orders {
		for _, item := range o.Items {
			if item.SellerID == sellerID {
				orders = append(orders, *o)
				break
			}
		}
	}
	return orders, nil
}

func (m *memStore) SellerHasItems(ctx context.Context, orderID, sellerID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpdateOrderStatus(ctx context.Context, orderID int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	return nil
}

func (m *memStore) SellerStats(ctx context.Context, sellerID int) (*repository.SellerOrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &repository.SellerOrderStats{DeliveredRevenue: decimal.Zero}
	for _, o := range m.orders {
		mine := false
		for _, item := range o.Items {
			if item.SellerID != sellerID {
				continue
			}
			mine = true
			if o.Status == entity.StatusDelivered {
				stats.DeliveredRevenue = stats.DeliveredRevenue.Add(item.Subtotal())
			}
		}
		if mine {
			stats.TotalOrders++
			if o.Status == entity.StatusPending {
				stats.PendingOrders++
			}
		}
	}
	return stats, nil
}

// --- repository.ProductRepository ---

func (m *memStore) CreateProduct(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextProductID++
	p.ID = m.nextProductID
	cp := *p
	m.products[p.ID] = &cp
	return p, nil
}

func (m *memStore) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Product
	for _, p := range m.products {
		if !filter.IncludeUnapproved && !(p.IsActive && p.IsApproved) {
			continue
		}
		if filter.SellerID != nil && p.SellerID != *filter.SellerID {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) ListPendingApproval(ctx context.Context) ([]entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Product
	for _, p := range m.products {
		if !p.IsApproved {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) SetApproval(ctx context.Context, id int, active, approved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	p.IsApproved = approved
	return nil
}

func (m *memStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountSellerProducts(ctx context.Context, sellerID int) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	total, active := 0, 0
	for _, p := range m.products {
		if p.SellerID != sellerID {
			continue
		}
		total++
		if p.IsActive && p.IsApproved {
			active++
		}
	}
	return total, active, nil
}

// --- repository.ReviewRepository ---

func (m *memStore) CreateReview(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.reviews {
		if r.ProductID == review.ProductID && r.BuyerID == review.BuyerID {
			return nil, repository.ErrDuplicate
		}
	}
	m.nextReviewID++
	review.ID = m.nextReviewID
	cp := *review
	m.reviews[review.ID] = &cp
	return review, nil
}

func (m *memStore) ListReviewsByProduct(ctx context.Context, productID int) ([]entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entity.Review
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) HasDeliveredOrder(ctx context.Context, buyerID, productID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.BuyerID != buyerID || o.Status != entity.StatusDelivered {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

var (
	_ repository.CartRepository    = (*memStore)(nil)
	_ repository.OrderRepository   = (*memStore)(nil)
	_ repository.ProductRepository = (*memStore)(nil)
	_ repository.ReviewRepository  = (*memStore)(nil)
)
