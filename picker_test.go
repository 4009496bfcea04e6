package main

import "testing"

func testPickerItems() []pickerItem {
	return []pickerItem{
		{ID: "a1", Label: "Holiday Fund", Meta: "$1,240.00"},
		{ID: "a2", Label: "Emergency Fund", Meta: "$2,400.00"},
		{ID: "a3", Label: "House Deposit", Meta: "$12,000.00"},
	}
}

func TestPickerEmptyQueryKeepsAllItems(t *testing.T) {
	p := newPicker("Accounts", testPickerItems())
	if got := len(p.filtered); got != 3 {
		t.Fatalf("filtered = %d, want 3", got)
	}
}

func TestPickerQueryFiltersAndRanksPrefixFirst(t *testing.T) {
	p := newPicker("Accounts", testPickerItems())
	p.SetQuery("ho")
	if len(p.filtered) != 2 {
		t.Fatalf("filtered = %d, want Holiday Fund and House Deposit only", len(p.filtered))
	}
	// Both start with "Ho"; the shorter label wins on edit distance.
	if p.filtered[0].Label != "Holiday Fund" {
		t.Fatalf("top match = %q, want Holiday Fund", p.filtered[0].Label)
	}
	for _, it := range p.filtered {
		if it.Label == "Emergency Fund" {
			t.Fatal("Emergency Fund must not match query \"ho\"")
		}
	}
}

func TestFuzzyMatchScorePrefersCloserLabel(t *testing.T) {
	_, shortScore := fuzzyMatchScore("Holiday", "holiday")
	_, longScore := fuzzyMatchScore("Holiday Fund Extra Long", "holiday")
	if shortScore <= longScore {
		t.Fatalf("exact-length label should outrank longer label: %d <= %d", shortScore, longScore)
	}
}

func TestFuzzyMatchScoreRejectsNonSubsequence(t *testing.T) {
	if ok, _ := fuzzyMatchScore("Holiday Fund", "xyz"); ok {
		t.Fatal("expected no match for disjoint query")
	}
}

func TestPickerCursorClampsOnRefilter(t *testing.T) {
	p := newPicker("Accounts", testPickerItems())
	p.CursorDown()
	p.CursorDown()
	if p.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", p.cursor)
	}
	p.SetQuery("emergency")
	if p.cursor != 0 {
		t.Fatalf("cursor = %d after refilter, want 0", p.cursor)
	}
	item, ok := p.Current()
	if !ok || item.Label != "Emergency Fund" {
		t.Fatalf("current = %+v, want Emergency Fund", item)
	}
}

func TestPickerHandleKeySelectAndCancel(t *testing.T) {
	p := newPicker("Accounts", testPickerItems())
	p.HandleKey("j")
	res := p.HandleKey("enter")
	if res.Action != pickerActionSelected {
		t.Fatalf("action = %v, want selected", res.Action)
	}
	if res.ItemID == "" || res.ItemLabel == "" {
		t.Fatalf("selection missing item: %+v", res)
	}

	if res := p.HandleKey("esc"); res.Action != pickerActionCancelled {
		t.Fatalf("esc action = %v, want cancelled", res.Action)
	}
}

func TestPickerTypedKeysBuildQuery(t *testing.T) {
	p := newPicker("Accounts", testPickerItems())
	p.HandleKey("h")
	p.HandleKey("o")
	if p.query != "ho" {
		t.Fatalf("query = %q, want \"ho\"", p.query)
	}
	p.HandleKey("backspace")
	if p.query != "h" {
		t.Fatalf("query = %q after backspace, want \"h\"", p.query)
	}
}
