package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

// In-memory fakes for the storage and collaborator ports. They reproduce the
// contracts the gorm stores honor: atomic claim-plus-vouchers issuance and the
// guarded notified update.

type memOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[string]*models.Order)}
}

func (s *memOrderStore) Upsert(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *order
	if existing, ok := s.orders[order.ExternalOrderID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.ID = uuid.New()
		stored.CreatedAt = time.Now().UTC()
	}
	stored.UpdatedAt = time.Now().UTC()
	s.orders[order.ExternalOrderID] = &stored

	result := stored
	return &result, nil
}

func (s *memOrderStore) FindByExternalID(ctx context.Context, externalOrderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[externalOrderID]
	if !ok {
		return nil, nil
	}
	result := *order
	return &result, nil
}

func (s *memOrderStore) List(ctx context.Context, req *models.PaginationRequest, status *models.PaymentStatus) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	for _, order := range s.orders {
		if status != nil && order.PaymentStatus != *status {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, int64(len(orders)), nil
}

type memVoucherStore struct {
	mu       sync.Mutex
	vouchers map[string]*models.Voucher // keyed by code
	byOrder  map[string][]string        // insertion-ordered codes per order
	claims   map[string]*models.IssuanceClaim

	// collideFirst makes the next n CreateIssuance calls fail with a code
	// collision before succeeding.
	collideFirst int
	// failMarkNotified injects a storage failure into MarkNotified.
	failMarkNotified error

	createCalls int
}

func newMemVoucherStore() *memVoucherStore {
	return &memVoucherStore{
		vouchers: make(map[string]*models.Voucher),
		byOrder:  make(map[string][]string),
		claims:   make(map[string]*models.IssuanceClaim),
	}
}

func (s *memVoucherStore) FindByOrder(ctx context.Context, externalOrderID string) ([]models.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vouchers []models.Voucher
	for _, code := range s.byOrder[externalOrderID] {
		vouchers = append(vouchers, *s.vouchers[code])
	}
	return vouchers, nil
}

func (s *memVoucherStore) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voucher, ok := s.vouchers[code]
	if !ok {
		return nil, nil
	}
	result := *voucher
	return &result, nil
}

func (s *memVoucherStore) List(ctx context.Context, req *models.PaginationRequest, notified *bool, voucherType *models.VoucherType) ([]models.Voucher, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var vouchers []models.Voucher
	for _, voucher := range s.vouchers {
		if notified != nil && voucher.Notified != *notified {
			continue
		}
		if voucherType != nil && voucher.Type != *voucherType {
			continue
		}
		vouchers = append(vouchers, *voucher)
	}
	return vouchers, int64(len(vouchers)), nil
}

func (s *memVoucherStore) CreateIssuance(ctx context.Context, claim *models.IssuanceClaim, vouchers []*models.Voucher) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	if _, claimed := s.claims[claim.ExternalOrderID]; claimed {
		return ErrIssuanceClaimed
	}
	if s.collideFirst > 0 {
		s.collideFirst--
		return ErrVoucherCodeCollision
	}
	for _, voucher := range vouchers {
		if _, dup := s.vouchers[voucher.Code]; dup {
			return ErrVoucherCodeCollision
		}
	}

	stored := *claim
	stored.ID = uuid.New()
	s.claims[claim.ExternalOrderID] = &stored

	for _, voucher := range vouchers {
		row := *voucher
		row.ID = uuid.New()
		row.CreatedAt = time.Now().UTC()
		s.vouchers[row.Code] = &row
		s.byOrder[row.ExternalOrderID] = append(s.byOrder[row.ExternalOrderID], row.Code)
	}
	return nil
}

// claimWithoutVouchers simulates the race window where the winner's claim is
// committed but its voucher rows are not visible to this reader yet.
func (s *memVoucherStore) claimWithoutVouchers(externalOrderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims[externalOrderID] = &models.IssuanceClaim{
		ID:              uuid.New(),
		ExternalOrderID: externalOrderID,
	}
}

func (s *memVoucherStore) insertVouchers(vouchers ...*models.Voucher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, voucher := range vouchers {
		row := *voucher
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		s.vouchers[row.Code] = &row
		s.byOrder[row.ExternalOrderID] = append(s.byOrder[row.ExternalOrderID], row.Code)
	}
}

func (s *memVoucherStore) MarkNotified(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failMarkNotified != nil {
		return false, s.failMarkNotified
	}
	voucher, ok := s.vouchers[code]
	if !ok {
		return false, errors.New("voucher not found")
	}
	if voucher.Notified {
		return false, nil
	}
	now := time.Now().UTC()
	voucher.Notified = true
	voucher.NotifiedAt = &now
	return true, nil
}

type memEventStore struct {
	mu      sync.Mutex
	records []*models.EventRecord
	seen    map[string]struct{}
}

func newMemEventStore() *memEventStore {
	return &memEventStore{seen: make(map[string]struct{})}
}

func (s *memEventStore) Record(ctx context.Context, record *models.EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := record.Topic + "/" + record.Digest
	stored := *record
	if _, dup := s.seen[key]; dup {
		stored.Status = models.EventStatusDuplicate
	}
	s.seen[key] = struct{}{}
	s.records = append(s.records, &stored)
	return nil
}

type fakeRenderer struct {
	mu    sync.Mutex
	fail  bool
	calls int
	kinds []models.DocumentKind
}

func (r *fakeRenderer) Render(ctx context.Context, kind models.DocumentKind, voucher *models.Voucher, order *models.Order) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	r.kinds = append(r.kinds, kind)
	if r.fail {
		return nil, errors.New("renderer unavailable")
	}
	return []byte("%PDF-stub"), nil
}

type fakeTransport struct {
	mu       sync.Mutex
	failures int // fail this many sends before succeeding
	attempts int
	sent     []*models.OutboundMessage
}

func (t *fakeTransport) Send(ctx context.Context, msg *models.OutboundMessage) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempts++
	if t.attempts <= t.failures {
		return "", errors.New("smtp connection refused")
	}
	t.sent = append(t.sent, msg)
	return fmt.Sprintf("msg-%d", len(t.sent)), nil
}

func (t *fakeTransport) sentCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}
