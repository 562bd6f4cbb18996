package service

import (
	"testing"
	"time"

	"github.com/ordertrack/internal/constants"
)

func TestIsTransitionAllowed(t *testing.T) {
	statuses := []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled,
	}
	allowed := map[string]string{
		constants.OrderStatusPending:        constants.OrderStatusConfirmed,
		constants.OrderStatusConfirmed:      constants.OrderStatusOutForDelivery,
		constants.OrderStatusOutForDelivery: constants.OrderStatusDelivered,
	}

	for _, current := range statuses {
		for _, target := range statuses {
			want := allowed[current] == target
			if got := isTransitionAllowed(current, target); got != want {
				t.Fatalf("transition %s -> %s: want %v got %v", current, target, want, got)
			}
		}
	}
}

func TestNoTransitionReachesCancelled(t *testing.T) {
	for current := range allowedTransitions {
		if allowedTransitions[current][constants.OrderStatusCancelled] {
			t.Fatalf("cancelled must be unreachable, but %s allows it", current)
		}
	}
}

func TestFormatOrderNumber(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := formatOrderNumber(createdAt, 42); got != "ORD-2026-000042" {
		t.Fatalf("want ORD-2026-000042, got %s", got)
	}
	if got := formatOrderNumber(createdAt, 1234567); got != "ORD-2026-1234567" {
		t.Fatalf("want ORD-2026-1234567, got %s", got)
	}

	// 年份按 UTC 计算，跨时区下单不产生歧义
	nearMidnight := time.Date(2025, 12, 31, 23, 30, 0, 0, time.FixedZone("UTC-8", -8*3600))
	if got := formatOrderNumber(nearMidnight, 7); got != "ORD-2026-000007" {
		t.Fatalf("want ORD-2026-000007, got %s", got)
	}
}

func TestActorHasAnyRole(t *testing.T) {
	manager := Actor{ID: 1, Role: constants.RoleManager}
	if !manager.hasAnyRole(constants.RoleManager, constants.RoleAdmin) {
		t.Fatal("manager should match manager/admin set")
	}
	if manager.hasAnyRole(constants.RoleDeliveryPerson) {
		t.Fatal("manager should not match delivery_person")
	}
	if (Actor{}).hasAnyRole(constants.RoleUser) {
		t.Fatal("empty actor should not match any role")
	}
}
