package bot

import (
	"strings"
	"sync"
	"testing"

	"citybot/core/telegram/state"
)

func newTestFlow() (*Flow, state.Manager) {
	sessions := state.NewMemoryManager()
	f := NewFlow(sessions)
	f.newRef = func() string { return "test-ref" }
	return f, sessions
}

func TestStartEntersServiceSelection(t *testing.T) {
	f, sessions := newTestFlow()

	reply := f.Start(100, "Alice")

	if got := sessions.GetState(100); got != StateAwaitingService {
		t.Fatalf("state = %q, want %q", got, StateAwaitingService)
	}
	if _, ok := sessions.Service(100); ok {
		t.Fatal("service should be unset right after start")
	}
	if reply.Keyboard != KeyboardServices {
		t.Fatalf("keyboard = %v, want services", reply.Keyboard)
	}
	if !strings.Contains(reply.Text, "Alice") {
		t.Fatalf("welcome should greet the user: %q", reply.Text)
	}
}

func TestStartOverwritesInProgressFlow(t *testing.T) {
	f, sessions := newTestFlow()

	f.Start(100, "")
	if _, ok := f.SelectService(100, string(ServicePlumber)); !ok {
		t.Fatal("selection should succeed")
	}

	f.Start(100, "")

	if got := sessions.GetState(100); got != StateAwaitingService {
		t.Fatalf("state after restart = %q, want %q", got, StateAwaitingService)
	}
	if _, ok := sessions.Service(100); ok {
		t.Fatal("restart should drop the previous selection")
	}
}

func TestSelectServiceRecordsCategory(t *testing.T) {
	f, sessions := newTestFlow()
	f.Start(100, "")

	replies, ok := f.SelectService(100, string(ServiceElectrician))
	if !ok {
		t.Fatal("selection should succeed from awaiting_service")
	}
	if got := sessions.GetState(100); got != StateAwaitingLocation {
		t.Fatalf("state = %q, want %q", got, StateAwaitingLocation)
	}
	if svc, _ := sessions.Service(100); svc != string(ServiceElectrician) {
		t.Fatalf("service = %q, want %q", svc, ServiceElectrician)
	}

	if len(replies) != 2 {
		t.Fatalf("replies = %d, want 2 (edit + prompt)", len(replies))
	}
	if !replies[0].Edit || !strings.Contains(replies[0].Text, ServiceElectrician.Label()) {
		t.Fatalf("first reply should edit with the selected label: %+v", replies[0])
	}
	if replies[1].Keyboard != KeyboardLocation {
		t.Fatalf("second reply keyboard = %v, want location", replies[1].Keyboard)
	}
}

func TestSelectServiceIgnoredOutsideSelection(t *testing.T) {
	f, _ := newTestFlow()

	if _, ok := f.SelectService(100, string(ServicePlumber)); ok {
		t.Fatal("stale button press on an idle chat should be ignored")
	}

	f.Start(100, "")
	f.SelectService(100, string(ServicePlumber))
	if _, ok := f.SelectService(100, string(ServiceElectrician)); ok {
		t.Fatal("second press should be ignored once a location is awaited")
	}
}

func TestSelectServiceRejectsUnknownPayload(t *testing.T) {
	f, sessions := newTestFlow()
	f.Start(100, "")

	if _, ok := f.SelectService(100, "locksmith"); ok {
		t.Fatal("unknown payload should be ignored")
	}
	if got := sessions.GetState(100); got != StateAwaitingService {
		t.Fatalf("state = %q, want unchanged %q", got, StateAwaitingService)
	}
}

func TestSubmitTextCompletesFlow(t *testing.T) {
	f, sessions := newTestFlow()
	f.Start(100, "")
	f.SelectService(100, string(ServicePlumber))

	reply, ok := f.SubmitText(100, "Downtown")
	if !ok {
		t.Fatal("text location should complete the flow")
	}
	if sessions.InProgress(100) {
		t.Fatal("session should be cleared after confirmation")
	}
	if !strings.Contains(reply.Text, ServicePlumber.Label()) {
		t.Fatalf("confirmation should echo the category: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Downtown") {
		t.Fatalf("confirmation should echo the location verbatim: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "test-ref") {
		t.Fatalf("confirmation should carry the request reference: %q", reply.Text)
	}
	if reply.Keyboard != KeyboardRemove {
		t.Fatalf("keyboard = %v, want remove", reply.Keyboard)
	}
}

func TestSubmitTextIgnoredWhenIdle(t *testing.T) {
	f, _ := newTestFlow()

	if _, ok := f.SubmitText(100, "Downtown"); ok {
		t.Fatal("text on an idle chat should not produce a confirmation")
	}
}

func TestSubmitTextCancelButton(t *testing.T) {
	f, sessions := newTestFlow()
	f.Start(100, "")
	f.SelectService(100, string(ServiceConstruction))

	reply, ok := f.SubmitText(100, cancelLabel)
	if !ok {
		t.Fatal("cancel button text should be handled")
	}
	if sessions.InProgress(100) {
		t.Fatal("cancel should clear the session")
	}
	if strings.Contains(reply.Text, "Confirmed") {
		t.Fatalf("cancel must not confirm: %q", reply.Text)
	}
}

func TestSubmitTextRejectsEmpty(t *testing.T) {
	f, sessions := newTestFlow()
	f.Start(100, "")
	f.SelectService(100, string(ServicePlumber))

	if _, ok := f.SubmitText(100, "   "); ok {
		t.Fatal("blank text should not complete the flow")
	}
	if got := sessions.GetState(100); got != StateAwaitingLocation {
		t.Fatalf("state = %q, want unchanged %q", got, StateAwaitingLocation)
	}
}

func TestSubmitCoordinatesLinksMap(t *testing.T) {
	f, sessions := newTestFlow()
	f.Start(100, "")
	f.SelectService(100, string(ServiceElectrician))

	reply, ok := f.SubmitCoordinates(100, 41.008238, 28.978359)
	if !ok {
		t.Fatal("coordinates should complete the flow")
	}
	if sessions.InProgress(100) {
		t.Fatal("session should be cleared after confirmation")
	}
	if !strings.Contains(reply.Text, "https://www.google.com/maps?q=") {
		t.Fatalf("confirmation should link the map: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "41.008238, 28.978359") {
		t.Fatalf("confirmation should show the coordinates: %q", reply.Text)
	}
	if !reply.NoPreview {
		t.Fatal("map link confirmation should disable the preview")
	}
}

func TestCancelFromAnyState(t *testing.T) {
	f, sessions := newTestFlow()

	states := []func(){
		func() {},
		func() { f.Start(100, "") },
		func() { f.Start(100, ""); f.SelectService(100, string(ServicePlumber)) },
	}
	for i, setup := range states {
		setup()
		reply := f.Cancel(100)
		if sessions.InProgress(100) {
			t.Fatalf("case %d: cancel should clear the session", i)
		}
		if reply.Keyboard != KeyboardRemove {
			t.Fatalf("case %d: keyboard = %v, want remove", i, reply.Keyboard)
		}
	}
}

func TestChatsAreIsolated(t *testing.T) {
	f, sessions := newTestFlow()

	f.Start(1, "")
	f.Start(2, "")
	f.SelectService(1, string(ServicePlumber))
	f.SelectService(2, string(ServiceElectrician))

	if svc, _ := sessions.Service(1); svc != string(ServicePlumber) {
		t.Fatalf("chat 1 service = %q", svc)
	}
	if svc, _ := sessions.Service(2); svc != string(ServiceElectrician) {
		t.Fatalf("chat 2 service = %q", svc)
	}

	f.Cancel(1)
	if sessions.InProgress(1) {
		t.Fatal("chat 1 should be cleared")
	}
	if got := sessions.GetState(2); got != StateAwaitingLocation {
		t.Fatalf("chat 2 state = %q, cancel on chat 1 must not leak", got)
	}
}

func TestConcurrentFlows(t *testing.T) {
	f, sessions := newTestFlow()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			f.Start(chatID, "")
			f.SelectService(chatID, string(ServicePlumber))
			if _, ok := f.SubmitText(chatID, "Midtown"); !ok {
				t.Errorf("chat %d: flow did not complete", chatID)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if n := sessions.ActiveCount(); n != 0 {
		t.Fatalf("active flows = %d, want 0", n)
	}
}

func TestScenarioPlumberDowntown(t *testing.T) {
	f, _ := newTestFlow()

	start := f.Start(100, "Bob")
	if start.Keyboard != KeyboardServices {
		t.Fatal("start should offer the services keyboard")
	}

	replies, ok := f.SelectService(100, string(ServicePlumber))
	if !ok || len(replies) != 2 {
		t.Fatalf("selection replies = %d/%v", len(replies), ok)
	}
	if !strings.Contains(replies[0].Text, "location") && !strings.Contains(replies[1].Text, "location") {
		t.Fatal("bot should ask for a location")
	}

	confirm, ok := f.SubmitText(100, "Downtown")
	if !ok {
		t.Fatal("location text should confirm the request")
	}
	for _, want := range []string{ServicePlumber.Label(), "Downtown", "notified"} {
		if !strings.Contains(confirm.Text, want) {
			t.Fatalf("confirmation missing %q: %q", want, confirm.Text)
		}
	}
}

func TestScenarioCancelBeforeLocation(t *testing.T) {
	f, sessions := newTestFlow()

	f.Start(100, "")
	if _, ok := f.SelectService(100, string(ServiceElectrician)); !ok {
		t.Fatal("selection should succeed")
	}

	f.Cancel(100)

	if sessions.InProgress(100) {
		t.Fatal("session should be cleared")
	}
	if _, ok := f.SubmitText(100, "Downtown"); ok {
		t.Fatal("no confirmation may be produced after cancel")
	}
}
