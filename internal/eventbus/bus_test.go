package eventbus

import (
	"testing"
	"time"

	"go.uber.org/goleak"

	"pkt.systems/keymirror/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubscribeAndPublish(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("local")
	defer cancel()

	event := schema.ContentEvent{Op: schema.ContentInsert, Server: "local", Key: "k", Type: schema.TypeList}
	bus.OnContentEvent(event)

	select {
	case got := <-ch:
		if got.Type != EventContent {
			t.Fatalf("expected content event, got %v", got.Type)
		}
		if got.Content.Server != event.Server || got.Content.Key != event.Key {
			t.Fatalf("unexpected payload: %+v", got.Content)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
	}
}

func TestWildcardReceivesEveryServer(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe(AllServers)
	defer cancel()

	bus.OnTabEvent(schema.TabEvent{Type: schema.TabEventOpened, Tab: schema.TabSnapshot{Server: "a"}})
	bus.OnTabEvent(schema.TabEvent{Type: schema.TabEventClosed, Tab: schema.TabSnapshot{Server: "b"}})

	for _, want := range []schema.ServerName{"a", "b"} {
		select {
		case got := <-ch:
			if got.Type != EventTab || got.Tab.Tab.Server != want {
				t.Fatalf("unexpected event: %+v", got)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestServerlessTabEventReachesEverySubscriber(t *testing.T) {
	bus := New(nil)
	a, cancelA := bus.Subscribe("a")
	defer cancelA()
	b, cancelB := bus.Subscribe("b")
	defer cancelB()
	all, cancelAll := bus.Subscribe(AllServers)
	defer cancelAll()

	bus.OnTabEvent(schema.TabEvent{Type: schema.TabEventClosed, ActivatedIndex: -1, Nav: schema.NavServer})

	for name, ch := range map[string]<-chan Event{"a": a, "b": b, "all": all} {
		select {
		case got := <-ch:
			if got.Type != EventTab || got.Tab.Type != schema.TabEventClosed {
				t.Fatalf("%s: unexpected event %+v", name, got)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("%s: timed out waiting for close event", name)
		}
		select {
		case extra := <-ch:
			t.Fatalf("%s: delivered twice: %+v", name, extra)
		default:
		}
	}
}

func TestOtherServerIsFiltered(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("a")
	defer cancel()

	bus.OnContentEvent(schema.ContentEvent{Server: "b"})
	select {
	case got := <-ch:
		t.Fatalf("unexpected event for other server: %+v", got)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe("local")
	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if len(bus.subs) != 0 {
		t.Fatalf("expected empty subscriber map, got %d", len(bus.subs))
	}
}

func TestPublishDoesNotBlockWhenFull(t *testing.T) {
	bus := New(nil)
	bus.depth = 1
	_, cancel := bus.Subscribe("local")
	defer cancel()

	var sendCh chan Event
	bus.mu.Lock()
	for ch := range bus.subs["local"] {
		sendCh = ch
		break
	}
	bus.mu.Unlock()
	if sendCh == nil {
		t.Fatalf("expected subscriber channel")
	}
	sendCh <- Event{Type: EventContent}
	done := make(chan struct{})
	go func() {
		bus.OnContentEvent(schema.ContentEvent{Server: "local"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("publish blocked on full channel")
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	bus.OnTabEvent(schema.TabEvent{})
	ch, cancel := bus.Subscribe("local")
	cancel()
	if ch != nil {
		t.Fatalf("expected nil channel from nil bus")
	}
}
