package domain

import (
	"encoding/json"
	"testing"
)

func TestPriceAcceptsNumbersAndStrings(t *testing.T) {
	cases := map[string]Price{
		`{"price": 299}`:      "299",
		`{"price": 19.9}`:     "19.9",
		`{"price": " 129 "}`:  "129",
		`{"price": null}`:     "",
		`{"product_id": "x"}`: "",
	}
	for raw, want := range cases {
		var p Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if p.Price != want {
			t.Fatalf("price for %s = %q, want %q", raw, p.Price, want)
		}
	}
}

func TestResultRecordCoverItemDefaults(t *testing.T) {
	item := ResultRecord{ProductID: "P009"}.CoverItem()
	if item.CoverTitle != DefaultCoverTitle {
		t.Fatalf("CoverTitle = %q, want %q", item.CoverTitle, DefaultCoverTitle)
	}
	if item.Subtitle != DefaultSubtitle {
		t.Fatalf("Subtitle = %q, want %q", item.Subtitle, DefaultSubtitle)
	}
	if item.Price != DefaultPrice {
		t.Fatalf("Price = %q, want %q", item.Price, DefaultPrice)
	}
	if got := CoverFilename(item.ProductID); got != "P009_cover.png" {
		t.Fatalf("CoverFilename = %q", got)
	}
}

func TestResultRecordCoverItemUsesFirstFeature(t *testing.T) {
	item := ResultRecord{
		ProductID:  "P001",
		CoverTitle: "深睡神器",
		Features:   []string{"云朵般的睡眠体验", "静音"},
		Price:      "199",
	}.CoverItem()
	if item.Subtitle != "云朵般的睡眠体验" {
		t.Fatalf("Subtitle = %q", item.Subtitle)
	}
	if item.Price != "199" {
		t.Fatalf("Price = %q", item.Price)
	}
}

func TestStoredRecordSubtitleFallbacks(t *testing.T) {
	cases := []struct{ raw, want string }{
		{`{"product_id":"P1"}`, AbsentSubtitle},
		{`{"product_id":"P1","features":[]}`, DefaultSubtitle},
		{`{"product_id":"P1","features":null}`, DefaultSubtitle},
		{`{"product_id":"P1","features":["静音"]}`, "静音"},
	}
	for _, tc := range cases {
		var r ResultRecord
		if err := json.Unmarshal([]byte(tc.raw), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if got := r.CoverItem().Subtitle; got != tc.want {
			t.Fatalf("subtitle for %s = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	cases := map[string]TaskStatus{
		"SUCCESS":     TaskStatusSuccess,
		"completed":   TaskStatusSuccess,
		"FAILED":      TaskStatusFailed,
		"CANCELLED":   TaskStatusCancelled,
		"canceled":    TaskStatusCancelled,
		"PENDING":     TaskStatusPending,
		"in_progress": TaskStatusPending,
		"":            TaskStatusUnknown,
		"weird":       TaskStatusUnknown,
	}
	for raw, want := range cases {
		if got := ParseTaskStatus(raw); got != want {
			t.Fatalf("ParseTaskStatus(%q) = %q, want %q", raw, got, want)
		}
	}
	if TaskStatusUnknown.Terminal() || TaskStatusPending.Terminal() {
		t.Fatal("pending/unknown must not be terminal")
	}
	if !TaskStatusCancelled.Failed() || !TaskStatusSuccess.Succeeded() {
		t.Fatal("terminal classification mismatch")
	}
}
