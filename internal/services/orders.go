package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopdesk/internal/models"
	"shopdesk/internal/upstream"
)

// Draft is a user-assembled order that only exists until it is submitted
// or cancelled.
type Draft struct {
	ID        uuid.UUID               `json:"id"`
	Notes     string                  `json:"notes"`
	Items     []models.OrderItemInput `json:"order_items"`
	CreatedAt time.Time               `json:"created_at"`
}

// Orders owns the order list cache and the transient drafts for the
// orders view.
type Orders struct {
	mu     sync.RWMutex
	client *upstream.Client
	logger *slog.Logger

	orders []models.Order
	drafts map[uuid.UUID]*Draft
}

func NewOrders(client *upstream.Client, logger *slog.Logger) *Orders {
	return &Orders{
		client: client,
		logger: logger,
		drafts: make(map[uuid.UUID]*Draft),
	}
}

func (s *Orders) Refresh(ctx context.Context) error {
	orders, err := s.client.Orders(ctx)
	if err != nil {
		s.logger.Error("orders refresh failed", "error", err)
		s.mu.Lock()
		s.orders = nil
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return nil
}

func (s *Orders) List() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Orders) Get(ctx context.Context, id int64) (models.Order, error) {
	return s.client.Order(ctx, id)
}

func (s *Orders) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteOrder(ctx, id); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refetch after delete failed", "error", err)
	}
	return nil
}

// ExportCSV streams the upstream sales report to w.
func (s *Orders) ExportCSV(ctx context.Context, startDate, endDate string, w io.Writer) error {
	return s.client.ExportCSV(ctx, startDate, endDate, w)
}

// snapshot copies the draft, items included, so callers can read or
// marshal it after the lock is gone. Call with the mutex held.
func (d *Draft) snapshot() Draft {
	out := *d
	out.Items = append([]models.OrderItemInput(nil), d.Items...)
	return out
}

// NewDraft opens an empty draft and registers it.
func (s *Orders) NewDraft() Draft {
	d := &Draft{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = d
	return d.snapshot()
}

// Draft returns a copy of the draft; the stored one only changes under
// the mutex via the mutators.
func (s *Orders) Draft(id uuid.UUID) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return Draft{}, false
	}
	return d.snapshot(), true
}

// AddDraftItem adds a line to the draft, merging quantity into an existing
// line for the same product.
func (s *Orders) AddDraftItem(id uuid.UUID, product int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("draft %s not found", id)
	}

	for i := range d.Items {
		if d.Items[i].Product == product {
			d.Items[i].Quantity += quantity
			return nil
		}
	}
	d.Items = append(d.Items, models.OrderItemInput{Product: product, Quantity: quantity})
	return nil
}

func (s *Orders) RemoveDraftItem(id uuid.UUID, product int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("draft %s not found", id)
	}

	for i := range d.Items {
		if d.Items[i].Product == product {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Orders) SetDraftNotes(id uuid.UUID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return fmt.Errorf("draft %s not found", id)
	}
	d.Notes = notes
	return nil
}

// SubmitDraft posts the draft to the upstream. The draft is discarded only
// on success; a rejected draft stays open so the user can correct it.
func (s *Orders) SubmitDraft(ctx context.Context, id uuid.UUID) (models.Order, error) {
	s.mu.RLock()
	stored, ok := s.drafts[id]
	var d Draft
	if ok {
		d = stored.snapshot()
	}
	s.mu.RUnlock()
	if !ok {
		return models.Order{}, fmt.Errorf("draft %s not found", id)
	}
	if len(d.Items) == 0 {
		return models.Order{}, fmt.Errorf("draft %s has no items", id)
	}

	order, err := s.client.CreateOrder(ctx, models.OrderInput{
		Notes: d.Notes,
		Items: d.Items,
	})
	if err != nil {
		return models.Order{}, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refetch after submit failed", "error", err)
	}
	return order, nil
}

func (s *Orders) CancelDraft(id uuid.UUID) {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
}
