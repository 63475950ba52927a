package orderstore

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/styloxstar/prosite-backend/internal/model"
)

func TestCreateAndGet(t *testing.T) {
	s := New(0, nil)

	o := s.Create(1, model.PlanPro, 1499, model.CurrencyINR)

	if !strings.HasPrefix(o.ID, "ORD-") {
		t.Fatalf("unexpected order id %q", o.ID)
	}
	if o.Status != model.OrderStatusPending {
		t.Fatalf("status = %s, want pending", o.Status)
	}

	got, err := s.Get(o.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserID != 1 || got.PlanID != model.PlanPro || got.Amount != 1499 {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestGet_Unknown(t *testing.T) {
	s := New(0, nil)

	_, err := s.Get("ORD-missing")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestExpiredOrderUnreachable(t *testing.T) {
	current := time.Now()
	s := New(time.Minute, func() time.Time { return current })

	o := s.Create(1, model.PlanStarter, 499, model.CurrencyINR)

	current = current.Add(2 * time.Minute)

	if _, err := s.Get(o.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for expired order, got %v", err)
	}
	if _, err := s.MarkCompleted(o.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for expired order, got %v", err)
	}
}

func TestCreateSweepsExpired(t *testing.T) {
	current := time.Now()
	s := New(time.Minute, func() time.Time { return current })

	s.Create(1, model.PlanStarter, 499, model.CurrencyINR)
	s.Create(1, model.PlanPro, 1499, model.CurrencyINR)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}

	current = current.Add(2 * time.Minute)
	s.Create(2, model.PlanEnterprise, 3999, model.CurrencyINR)

	if s.Len() != 1 {
		t.Fatalf("Len = %d after sweep, want 1", s.Len())
	}
}

func TestMarkCompleted_Once(t *testing.T) {
	s := New(0, nil)
	o := s.Create(1, model.PlanPro, 1499, model.CurrencyINR)

	done, err := s.MarkCompleted(o.ID)
	if err != nil {
		t.Fatalf("MarkCompleted error: %v", err)
	}
	if done.Status != model.OrderStatusCompleted {
		t.Fatalf("status = %s, want completed", done.Status)
	}

	if _, err := s.MarkCompleted(o.ID); !errors.Is(err, ErrOrderAlreadyCompleted) {
		t.Fatalf("expected ErrOrderAlreadyCompleted, got %v", err)
	}
}

func TestMarkCompleted_ConcurrentSingleWinner(t *testing.T) {
	s := New(0, nil)
	o := s.Create(1, model.PlanPro, 1499, model.CurrencyINR)

	const workers = 16

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.MarkCompleted(o.ID); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestOrderIDsUnique(t *testing.T) {
	s := New(0, nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		o := s.Create(1, model.PlanStarter, 499, model.CurrencyINR)
		if seen[o.ID] {
			t.Fatalf("duplicate order id %q", o.ID)
		}
		seen[o.ID] = true
	}
}
