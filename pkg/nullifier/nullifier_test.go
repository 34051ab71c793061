package nullifier

import (
	"errors"
	"testing"
)

func TestEncodeDecodeSlotRoundTrip(t *testing.T) {
	slot := uint64(0x0102030405060708)
	encoded := EncodeSlot(slot)
	if got := DecodeSlot(encoded); got != slot {
		t.Fatalf("got %d, want %d", got, slot)
	}
}

func TestMemoryStoreTrySpendAndReplay(t *testing.T) {
	store := NewMemoryStore()
	var n [Size]byte
	n[0] = 0xAA

	if err := store.TrySpend(n, 7); err != nil {
		t.Fatalf("first TrySpend: %v", err)
	}

	slot, spent := store.SpentSlot(n)
	if !spent || slot != 7 {
		t.Fatalf("expected spent at slot 7, got spent=%v slot=%d", spent, slot)
	}

	// Replaying the same nullifier (spec.md §8 scenario 5) must fail even
	// with a different slot.
	if err := store.TrySpend(n, 9); !errors.Is(err, ErrAlreadySpent) {
		t.Fatalf("expected ErrAlreadySpent on replay, got %v", err)
	}

	slot, spent = store.SpentSlot(n)
	if !spent || slot != 7 {
		t.Fatalf("replay must not overwrite the original slot: got spent=%v slot=%d", spent, slot)
	}
}

func TestMemoryStoreUnspentNullifier(t *testing.T) {
	store := NewMemoryStore()
	var n [Size]byte
	n[0] = 0xBB

	if _, spent := store.SpentSlot(n); spent {
		t.Fatal("expected an unrecorded nullifier to be unspent")
	}
}

func TestMemoryStoreDistinctNullifiersDoNotCollide(t *testing.T) {
	store := NewMemoryStore()
	var a, b [Size]byte
	a[0] = 1
	b[0] = 2

	if err := store.TrySpend(a, 1); err != nil {
		t.Fatalf("TrySpend(a): %v", err)
	}
	if err := store.TrySpend(b, 2); err != nil {
		t.Fatalf("TrySpend(b): %v", err)
	}
}
