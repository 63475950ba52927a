// Package orderstore содержит реестр эфемерных платёжных ордеров в памяти.
package orderstore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/styloxstar/prosite-backend/internal/model"
)

// ErrOrderNotFound возвращается, если ордер не найден либо истёк.
var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyCompleted возвращается при повторном подтверждении ордера.
	ErrOrderAlreadyCompleted = errors.New("order already completed")
)

// DefaultTTL — время жизни ордера с момента создания, независимо от статуса.
const DefaultTTL = 30 * time.Minute

// Store хранит незавершённые платёжные ордера. Всё состояние локально для
// процесса и теряется при перезапуске — ордера не имеют ценности после
// истечения срока оплаты.
type Store struct {
	mu     sync.Mutex
	orders map[string]*model.Order
	ttl    time.Duration
	now    func() time.Time
}

// New создаёт хранилище ордеров с указанным TTL и источником времени.
// Нулевые аргументы заменяются значениями по умолчанию.
func New(ttl time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		orders: make(map[string]*model.Order),
		ttl:    ttl,
		now:    now,
	}
}

// Create регистрирует новый ордер со статусом pending и возвращает его копию.
// Перед вставкой выполняется уборка истёкших ордеров.
func (s *Store) Create(userID int64, planID model.PlanID, amount int64, currency model.Currency) model.Order {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	o := &model.Order{
		ID:        newOrderID(now),
		UserID:    userID,
		PlanID:    planID,
		Amount:    amount,
		Currency:  currency,
		Status:    model.OrderStatusPending,
		CreatedAt: now,
	}
	s.orders[o.ID] = o

	return *o
}

// Get возвращает копию ордера по идентификатору. Истёкший ордер недоступен,
// даже если уборка ещё не выполнялась.
func (s *Store) Get(orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok || s.expired(o, s.now()) {
		return model.Order{}, ErrOrderNotFound
	}

	return *o, nil
}

// MarkCompleted атомарно переводит ордер из pending в completed. Переход
// выполняется ровно один раз; повторный вызов возвращает
// ErrOrderAlreadyCompleted.
func (s *Store) MarkCompleted(orderID string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok || s.expired(o, s.now()) {
		return model.Order{}, ErrOrderNotFound
	}

	if o.Status == model.OrderStatusCompleted {
		return model.Order{}, ErrOrderAlreadyCompleted
	}

	o.Status = model.OrderStatusCompleted
	return *o, nil
}

// Len возвращает число ордеров в хранилище, включая ещё не убранные истёкшие.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *Store) sweepLocked(now time.Time) {
	for id, o := range s.orders {
		if s.expired(o, now) {
			delete(s.orders, id)
		}
	}
}

func (s *Store) expired(o *model.Order, now time.Time) bool {
	return now.Sub(o.CreatedAt) > s.ttl
}

func newOrderID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}
