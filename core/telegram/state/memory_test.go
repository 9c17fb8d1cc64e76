package state

import (
	"sync"
	"testing"
)

const (
	testAwaitingService  State = "awaiting_service"
	testAwaitingLocation State = "awaiting_location"
)

func TestMemoryManagerDefaults(t *testing.T) {
	m := NewMemoryManager()
	if got := m.GetState(1); got != StateIdle {
		t.Fatalf("fresh chat state = %q, want %q", got, StateIdle)
	}
	if _, ok := m.Service(1); ok {
		t.Fatal("fresh chat should have no service")
	}
	if m.InProgress(1) {
		t.Fatal("fresh chat should not be in progress")
	}
	if n := m.ActiveCount(); n != 0 {
		t.Fatalf("ActiveCount = %d, want 0", n)
	}
}

func TestMemoryManagerTransitions(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(7, testAwaitingService)
	if got := m.GetState(7); got != testAwaitingService {
		t.Fatalf("state = %q, want %q", got, testAwaitingService)
	}
	if !m.InProgress(7) {
		t.Fatal("chat should be in progress")
	}

	m.SetService(7, "plumber")
	m.SetState(7, testAwaitingLocation)
	svc, ok := m.Service(7)
	if !ok || svc != "plumber" {
		t.Fatalf("service = %q/%v, want plumber/true", svc, ok)
	}
	if n := m.ActiveCount(); n != 1 {
		t.Fatalf("ActiveCount = %d, want 1", n)
	}

	m.Clear(7)
	if got := m.GetState(7); got != StateIdle {
		t.Fatalf("state after clear = %q, want %q", got, StateIdle)
	}
	if _, ok := m.Service(7); ok {
		t.Fatal("service should be gone after clear")
	}
}

func TestMemoryManagerChatIsolation(t *testing.T) {
	m := NewMemoryManager()

	m.SetState(1, testAwaitingLocation)
	m.SetService(1, "electrician")
	m.SetState(2, testAwaitingService)

	if svc, ok := m.Service(2); ok {
		t.Fatalf("chat 2 leaked service %q from chat 1", svc)
	}
	if got := m.GetState(2); got != testAwaitingService {
		t.Fatalf("chat 2 state = %q, want %q", got, testAwaitingService)
	}

	m.Clear(2)
	if got := m.GetState(1); got != testAwaitingLocation {
		t.Fatalf("clearing chat 2 mutated chat 1: state = %q", got)
	}
	if svc, ok := m.Service(1); !ok || svc != "electrician" {
		t.Fatalf("chat 1 service = %q/%v, want electrician/true", svc, ok)
	}
}

func TestMemoryManagerConcurrentChats(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for chat := int64(1); chat <= 50; chat++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, testAwaitingService)
			m.SetService(id, "plumber")
			m.SetState(id, testAwaitingLocation)
			if got := m.GetState(id); got != testAwaitingLocation {
				t.Errorf("chat %d state = %q", id, got)
			}
			m.Clear(id)
		}(chat)
	}
	wg.Wait()
	if n := m.ActiveCount(); n != 0 {
		t.Fatalf("ActiveCount = %d after all chats cleared", n)
	}
}
