package core

import (
	"testing"
	"time"
)

func sampleTransactions() []Transaction {
	day := func(d int, hour int) time.Time {
		return time.Date(2024, 1, d, hour, 0, 0, 0, time.UTC)
	}
	return []Transaction{
		{ID: "1", Amount: 450, Merchant: "Swiggy", Category: "Food & Dining", Date: day(20, 14), InputType: InputText, Description: "Lunch order"},
		{ID: "2", Amount: 1200, Merchant: "Uber", Category: "Transportation", Date: day(20, 9), InputType: InputAudio, Description: "Cab to office"},
		{ID: "3", Amount: 2500, Merchant: "Amazon", Category: "Shopping", Date: day(19, 18), InputType: InputImage, Description: "Electronics purchase"},
		{ID: "4", Amount: 180, Merchant: "Cafe Coffee Day", Category: "Food & Dining", Date: day(19, 16), InputType: InputText, Description: "Evening coffee"},
		{ID: "5", Amount: 3200, Merchant: "Electricity Bill", Category: "Bills & Utilities", Date: day(18, 10), InputType: InputImage, Description: "Monthly electricity bill"},
	}
}

func TestFilterTransactionsNeutralQuery(t *testing.T) {
	txs := sampleTransactions()
	got := FilterTransactions(txs, NewQuery())
	if len(got) != len(txs) {
		t.Fatalf("expected %d transactions, got %d", len(txs), len(got))
	}
	for i := range got {
		if got[i].ID != txs[i].ID {
			t.Fatalf("order not preserved at index %d: got %s want %s", i, got[i].ID, txs[i].ID)
		}
	}
}

func TestFilterTransactions(t *testing.T) {
	txs := sampleTransactions()
	cases := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{"category match", Query{Category: "Food & Dining", InputType: FilterAll}, []string{"1", "4"}},
		{"input type match", Query{Category: FilterAll, InputType: "image"}, []string{"3", "5"}},
		{"search merchant case-insensitive", Query{Search: "swiggy", Category: FilterAll, InputType: FilterAll}, []string{"1"}},
		{"search description", Query{Search: "coffee", Category: FilterAll, InputType: FilterAll}, []string{"4"}},
		{"search matches merchant or description", Query{Search: "bill", Category: FilterAll, InputType: FilterAll}, []string{"5"}},
		{"all predicates combined", Query{Search: "lunch", Category: "Food & Dining", InputType: "text"}, []string{"1"}},
		{"combined mismatch", Query{Search: "lunch", Category: "Shopping", InputType: FilterAll}, nil},
		{"no match yields empty", Query{Search: "zzz", Category: FilterAll, InputType: FilterAll}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterTransactions(txs, tc.query)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d results, want %d", len(got), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if got[i].ID != id {
					t.Fatalf("result %d: got ID %s want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterTransactionsEmptyInput(t *testing.T) {
	got := FilterTransactions(nil, NewQuery())
	if got == nil {
		t.Fatalf("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestFilterTransactionsSubsetProperty(t *testing.T) {
	txs := sampleTransactions()
	q := Query{Search: "e", Category: FilterAll, InputType: FilterAll}
	got := FilterTransactions(txs, q)
	prev := -1
	for _, g := range got {
		if !q.Matches(g) {
			t.Fatalf("result %s does not satisfy the query", g.ID)
		}
		idx := -1
		for i, orig := range txs {
			if orig.ID == g.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			t.Fatalf("result %s not in source list", g.ID)
		}
		if idx <= prev {
			t.Fatalf("original order not preserved")
		}
		prev = idx
	}
}

func TestFilteredAggregationScenario(t *testing.T) {
	// Filtering the demo list by Food & Dining keeps exactly the 450 and 180
	// entries, totalling 630 with a 315 average.
	txs := sampleTransactions()
	got := FilterTransactions(txs, Query{Category: "Food & Dining", InputType: FilterAll})
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].Amount != 450 || got[1].Amount != 180 {
		t.Fatalf("unexpected amounts: %d, %d", got[0].Amount, got[1].Amount)
	}
	if total := TotalAmount(got); total != 630 {
		t.Fatalf("total = %d, want 630", total)
	}
	if avg := AverageAmount(got); avg != 315 {
		t.Fatalf("average = %d, want 315", avg)
	}
}
