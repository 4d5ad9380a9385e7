package journal

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryRecordAndRecent(t *testing.T) {
	j := NewInMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := j.Record(ctx, Entry{
			Instruction: fmt.Sprintf("DEBIT %d NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2", i+1),
			Status:      "successful",
			StatusCode:  "AP00",
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	recent, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Instruction != "DEBIT 3 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2" {
		t.Fatalf("expected newest entry first, got %q", recent[0].Instruction)
	}
	if recent[0].ID.String() == "00000000-0000-0000-0000-000000000000" || recent[0].ProcessedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp: %+v", recent[0])
	}

	all, _ := j.Recent(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("expected all 3 entries, got %d", len(all))
	}
}

func TestInMemoryRejectsIncompleteEntry(t *testing.T) {
	j := NewInMemory()
	if err := j.Record(context.Background(), Entry{Instruction: "x"}); err != ErrInvalidEntry {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestInMemoryConcurrentRecords(t *testing.T) {
	j := NewInMemory()
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := j.Record(ctx, Entry{Instruction: fmt.Sprint(i), Status: "failed", StatusCode: "SY03"}); err != nil {
				t.Errorf("record %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	all, _ := j.Recent(ctx, 0)
	if len(all) != workers {
		t.Fatalf("expected %d entries, got %d", workers, len(all))
	}
}
