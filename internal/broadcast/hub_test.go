package broadcast

import (
	"testing"
	"time"
)

func TestHubPublishFanOut(t *testing.T) {
	hub := NewHub(4)
	first := hub.Subscribe("order:ORD-2026-000001")
	second := hub.Subscribe("order:ORD-2026-000001")
	other := hub.Subscribe("order:ORD-2026-000002")
	defer hub.Unsubscribe(first)
	defer hub.Unsubscribe(second)
	defer hub.Unsubscribe(other)

	hub.Publish("order:ORD-2026-000001", Event{Name: "order_status", OrderNumber: "ORD-2026-000001", Status: "confirmed"})

	for _, sub := range []*Subscription{first, second} {
		select {
		case event := <-sub.C:
			if event.Status != "confirmed" {
				t.Fatalf("unexpected event: %+v", event)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case event := <-other.C:
		t.Fatalf("other channel must not receive event: %+v", event)
	default:
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(4)
	sub := hub.Subscribe("pool:managers")
	if hub.SubscriberCount("pool:managers") != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount("pool:managers"))
	}

	hub.Unsubscribe(sub)
	if hub.SubscriberCount("pool:managers") != 0 {
		t.Fatalf("expected 0 subscribers, got %d", hub.SubscriberCount("pool:managers"))
	}

	hub.Publish("pool:managers", Event{Name: "new_pending_order"})
	select {
	case event := <-sub.C:
		t.Fatalf("unsubscribed channel must not receive event: %+v", event)
	default:
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(2)
	sub := hub.Subscribe("pool:delivery")
	defer hub.Unsubscribe(sub)

	for i := 0; i < 5; i++ {
		hub.Publish("pool:delivery", Event{Name: "order_available"})
	}
	// 缓冲 2 条，其余静默丢弃，发布端不阻塞
	if got := len(sub.C); got != 2 {
		t.Fatalf("expected 2 buffered events, got %d", got)
	}
}

func TestHubNilAndUnknownChannelSafe(t *testing.T) {
	var hub *Hub
	hub.Publish("order:ORD-2026-000001", Event{Name: "order_status"})

	real := NewHub(0)
	real.Publish("order:unknown", Event{Name: "order_status"})
	if real.SubscriberCount("order:unknown") != 0 {
		t.Fatal("publish must not create channels")
	}
}

func TestOrderChannelKey(t *testing.T) {
	if got := OrderChannel("ORD-2026-000042"); got != "order:ORD-2026-000042" {
		t.Fatalf("unexpected channel key: %s", got)
	}
}
