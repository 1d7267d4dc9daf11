package catalog

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 7, 10, 30, 0, 0, time.UTC)

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		in   interface{}
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", false},
		{"on", false},
		{"1", false},
		{"TRUE", false},
		{float64(1), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := coerceBool(tt.in); got != tt.want {
			t.Errorf("coerceBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{float64(12.5), 12.5},
		{"12.5", 12.5},
		{" 7 ", 7},
		{"abc", 0},
		{"", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tt := range tests {
		if got := coerceFloat(tt.in); got != tt.want {
			t.Errorf("coerceFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{float64(3), 3},
		{float64(3.9), 3},
		{"3", 3},
		{"3.9", 3},
		{"x", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := coerceInt(tt.in); got != tt.want {
			t.Errorf("coerceInt(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoerceStringList(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []interface{}
	}{
		{"sequence passes through", []interface{}{"a", "b"}, []interface{}{"a", "b"}},
		{"comma text splits and trims", " fruity , floral ,", []interface{}{"fruity", "floral"}},
		{"single token", "fruity", []interface{}{"fruity"}},
		{"empty text", "", []interface{}{}},
		{"other shapes collapse", float64(5), []interface{}{}},
		{"nil collapses", nil, []interface{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceStringList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("coerceStringList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceImageList(t *testing.T) {
	seq := []interface{}{"a.jpg", "b.jpg"}
	if got := coerceImageList(seq); !reflect.DeepEqual(got, seq) {
		t.Errorf("coerceImageList(sequence) = %v, want %v", got, seq)
	}
	// Loose text never becomes an image list; names only enter via uploads.
	if got := coerceImageList("a.jpg"); !reflect.DeepEqual(got, []interface{}{}) {
		t.Errorf("coerceImageList(string) = %v, want empty", got)
	}
	if got := coerceImageList(nil); !reflect.DeepEqual(got, []interface{}{}) {
		t.Errorf("coerceImageList(nil) = %v, want empty", got)
	}
}

func TestNormalizeCreateMaterializesDeclaredFields(t *testing.T) {
	doc, err := normalizeCreate(KindBeans, schemas[KindBeans], map[string]interface{}{
		"name": "Ethiopia Yirgacheffe",
	}, testNow)
	if err != nil {
		t.Fatalf("normalizeCreate: %v", err)
	}

	if doc["isFeatured"] != false || doc["inStock"] != false {
		t.Errorf("bool fields not materialized: %v", doc)
	}
	if doc["discountPercentage"] != float64(0) {
		t.Errorf("discountPercentage = %v, want 0", doc["discountPercentage"])
	}
	for _, name := range []string{"keywords", "cupping_notes", "images", "variants"} {
		v, ok := doc[name].([]interface{})
		if !ok || len(v) != 0 {
			t.Errorf("%s = %v, want empty sequence", name, doc[name])
		}
	}
	if doc["name"] != "Ethiopia Yirgacheffe" {
		t.Errorf("undeclared field changed: %v", doc["name"])
	}
}

func TestNormalizeCreateMaterializesObjects(t *testing.T) {
	doc, err := normalizeCreate(KindMachines, schemas[KindMachines], map[string]interface{}{}, testNow)
	if err != nil {
		t.Fatalf("normalizeCreate: %v", err)
	}
	for _, name := range []string{"specifications", "features"} {
		v, ok := doc[name].(map[string]interface{})
		if !ok || len(v) != 0 {
			t.Errorf("%s = %v, want empty mapping", name, doc[name])
		}
	}
}

func TestNormalizeCreateParsesEmbeddedJSON(t *testing.T) {
	doc, err := normalizeCreate(KindBeans, schemas[KindBeans], map[string]interface{}{
		"variants": `[{"size":"250g","price":500}]`,
	}, testNow)
	if err != nil {
		t.Fatalf("normalizeCreate: %v", err)
	}
	vs, ok := doc["variants"].([]interface{})
	if !ok || len(vs) != 1 {
		t.Fatalf("variants = %v, want one entry", doc["variants"])
	}
	first := vs[0].(map[string]interface{})
	if first["price"] != float64(500) {
		t.Errorf("variant price = %v, want 500", first["price"])
	}
}

func TestNormalizeCreateRejectsMalformedJSON(t *testing.T) {
	_, err := normalizeCreate(KindBeans, schemas[KindBeans], map[string]interface{}{
		"variants": "{not json",
	}, testNow)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("err = %v, want *InputError", err)
	}
	if inputErr.Field != "variants" || inputErr.Kind != KindBeans {
		t.Errorf("InputError = %+v, want variants/beans", inputErr)
	}
}

func TestNormalizeCreateDiscardsIdentity(t *testing.T) {
	doc, err := normalizeCreate(KindBeans, schemas[KindBeans], map[string]interface{}{
		"id":   "forged01",
		"slug": "forged-slug",
		"name": "Kenya AA",
	}, testNow)
	if err != nil {
		t.Fatalf("normalizeCreate: %v", err)
	}
	if _, ok := doc["id"]; ok {
		t.Error("incoming id survived normalization")
	}
	if _, ok := doc["slug"]; ok {
		t.Error("incoming slug survived normalization")
	}
}

func TestNormalizeCreateStripsOrderFields(t *testing.T) {
	doc, err := normalizeCreate(KindOrders, schemas[KindOrders], map[string]interface{}{
		"customerName": "Jo",
		"slug":         "bogus",
		"keywords":     "a,b",
		"images":       []interface{}{"x.jpg"},
		"isFeatured":   "true",
		"inStock":      "true",
		"totalAmount":  "42.5",
	}, testNow)
	if err != nil {
		t.Fatalf("normalizeCreate: %v", err)
	}
	for _, name := range []string{"slug", "keywords", "images", "isFeatured", "inStock"} {
		if _, ok := doc[name]; ok {
			t.Errorf("order retained %q", name)
		}
	}
	if doc["totalAmount"] != 42.5 {
		t.Errorf("totalAmount = %v, want 42.5", doc["totalAmount"])
	}
	if doc["customerName"] != "Jo" {
		t.Errorf("customerName = %v, want Jo", doc["customerName"])
	}
}

func TestNormalizeUpdateTouchesOnlyPresentFields(t *testing.T) {
	patch := normalizeUpdate(schemas[KindBeans], map[string]interface{}{
		"inStock": "true",
	})
	if patch["inStock"] != true {
		t.Errorf("inStock = %v, want true", patch["inStock"])
	}
	for _, name := range []string{"isFeatured", "keywords", "images", "variants", "discountPercentage"} {
		if _, ok := patch[name]; ok {
			t.Errorf("absent field %q materialized on update", name)
		}
	}
}

func TestNormalizeUpdateDegradesMalformedJSON(t *testing.T) {
	patch := normalizeUpdate(schemas[KindBeans], map[string]interface{}{
		"variants": "{not json",
	})
	if got, ok := patch["variants"].([]interface{}); !ok || len(got) != 0 {
		t.Errorf("variants = %v, want empty sequence", patch["variants"])
	}

	patch = normalizeUpdate(schemas[KindMachines], map[string]interface{}{
		"specifications": "{not json",
	})
	if got, ok := patch["specifications"].(map[string]interface{}); !ok || len(got) != 0 {
		t.Errorf("specifications = %v, want empty mapping", patch["specifications"])
	}
}

func TestNormalizeUpdateDiscardsIdentity(t *testing.T) {
	patch := normalizeUpdate(schemas[KindBeans], map[string]interface{}{
		"id":   "other123",
		"slug": "other-slug",
		"name": "Renamed",
	})
	if _, ok := patch["id"]; ok {
		t.Error("incoming id survived update normalization")
	}
	if _, ok := patch["slug"]; ok {
		t.Error("incoming slug survived update normalization")
	}
	if patch["name"] != "Renamed" {
		t.Errorf("name = %v, want Renamed", patch["name"])
	}
}

func TestSlugSourceFallback(t *testing.T) {
	sc := schemas[KindBeans]
	if got := slugSource(sc, Document{"name": "Kenya AA"}); got != "Kenya AA" {
		t.Errorf("slugSource = %q, want Kenya AA", got)
	}
	if got := slugSource(sc, Document{"name": "   "}); got != "item" {
		t.Errorf("slugSource(blank) = %q, want item", got)
	}
	if got := slugSource(sc, Document{}); got != "item" {
		t.Errorf("slugSource(absent) = %q, want item", got)
	}
}
