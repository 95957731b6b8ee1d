// ABOUTME: Tests for intake tree decoding and section normalization
// ABOUTME: Covers array vs keyed-object encodings, ordering, and presence semantics
package roma

import (
	"testing"
)

func TestDecodeEmptyDocument(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("expected error for nil document")
	}
	if _, err := Decode([]byte{}); err == nil {
		t.Error("expected error for empty document")
	}
}

func TestDecodeEmptyObject(t *testing.T) {
	tree, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if tree.Has("hero") {
		t.Error("empty tree should not report sections")
	}
}

func TestSectionPresence(t *testing.T) {
	tree, err := Decode([]byte(`{"hero": {"title": "Acme"}, "seo": null}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	hero, ok := tree.Section("hero")
	if !ok {
		t.Fatal("expected hero section")
	}
	if Str(hero, "title") != "Acme" {
		t.Errorf("expected title Acme, got %q", Str(hero, "title"))
	}

	// Explicit null: key exists but is not an object
	if !tree.Has("seo") {
		t.Error("null section should still report Has")
	}
	if _, ok := tree.Section("seo"); ok {
		t.Error("null section should not decode as object")
	}

	// Absent entirely
	if tree.Has("faqs") {
		t.Error("absent section should not report Has")
	}
}

func TestItemsArrayEncoding(t *testing.T) {
	tree, err := Decode([]byte(`{"services": [{"name": "Hauling"}, {"name": "Delivery"}, {"name": "Rental"}]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	items, ok := tree.Items("services")
	if !ok {
		t.Fatal("expected services section")
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if Str(items[0], "name") != "Hauling" || Str(items[2], "name") != "Rental" {
		t.Error("array order should be preserved")
	}
}

func TestItemsKeyedObjectEncoding(t *testing.T) {
	// Keys deliberately out of order, with a double-digit index to catch
	// lexicographic sorting.
	doc := `{"services": {
		"service_10": {"name": "Tenth"},
		"service_2": {"name": "Second"},
		"service_1": {"name": "First"}
	}}`
	tree, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	items, ok := tree.Items("services")
	if !ok {
		t.Fatal("expected services section")
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	got := []string{Str(items[0], "name"), Str(items[1], "name"), Str(items[2], "name")}
	want := []string{"First", "Second", "Tenth"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestItemsEncodingInvariance(t *testing.T) {
	asArray := `{"faqs": [{"question": "A?"}, {"question": "B?"}]}`
	asObject := `{"faqs": {"faq_1": {"question": "A?"}, "faq_2": {"question": "B?"}}}`

	treeA, err := Decode([]byte(asArray))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	treeB, err := Decode([]byte(asObject))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	itemsA, _ := treeA.Items("faqs")
	itemsB, _ := treeB.Items("faqs")

	if len(itemsA) != len(itemsB) {
		t.Fatalf("encodings disagree on length: %d vs %d", len(itemsA), len(itemsB))
	}
	for i := range itemsA {
		if Str(itemsA[i], "question") != Str(itemsB[i], "question") {
			t.Errorf("item %d differs between encodings", i)
		}
	}
}

func TestItemsEmptyAndAbsent(t *testing.T) {
	tree, err := Decode([]byte(`{"services": [], "locations": {}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	items, ok := tree.Items("services")
	if !ok || len(items) != 0 {
		t.Errorf("empty array should be present with zero items, got ok=%v len=%d", ok, len(items))
	}

	items, ok = tree.Items("locations")
	if !ok || len(items) != 0 {
		t.Errorf("empty object should be present with zero items, got ok=%v len=%d", ok, len(items))
	}

	if _, ok := tree.Items("faqs"); ok {
		t.Error("absent section should return ok=false")
	}
}

func TestLookupDistinguishesNullFromAbsent(t *testing.T) {
	tree, err := Decode([]byte(`{"hero": {"title": "Acme", "subtitle": null}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	hero, _ := tree.Section("hero")

	if v, ok := Lookup(hero, "title"); !ok || v != "Acme" {
		t.Error("expected present string title")
	}
	if v, ok := Lookup(hero, "subtitle"); !ok || v != nil {
		t.Error("expected present null subtitle")
	}
	if _, ok := Lookup(hero, "tagline"); ok {
		t.Error("expected absent tagline")
	}
}
