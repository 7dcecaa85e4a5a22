package declaration

import (
	"reflect"
	"strings"
	"testing"
)

// itemJSONFields collects the json keys of JobCargoItem so the registry can be
// checked against the actual model instead of a hand-maintained list.
func itemJSONFields(t *testing.T) map[string]bool {
	t.Helper()
	fields := map[string]bool{}
	typ := reflect.TypeOf(JobCargoItem{})
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		fields[name] = true
	}
	return fields
}

func TestColumnFieldsExistOnItemModel(t *testing.T) {
	fields := itemJSONFields(t)
	for _, info := range AvailableFormTypes() {
		for _, col := range ColumnsForFormType(info.Key) {
			if !fields[col.Field] {
				t.Errorf("%s column %q has no matching item field", info.Key, col.Field)
			}
		}
	}
}

func TestColumnsForFormTypeFallback(t *testing.T) {
	unknown := ColumnsForFormType(FormType("K99"))
	k1 := ColumnsForFormType(FormK1)
	if len(unknown) != len(k1) {
		t.Fatalf("unknown type should fall back to K1: got %d columns want %d", len(unknown), len(k1))
	}
	for i := range k1 {
		if unknown[i].Field != k1[i].Field {
			t.Fatalf("column %d: got %q want %q", i, unknown[i].Field, k1[i].Field)
		}
	}
	if FormName(FormType("K99")) != FormName(FormK1) {
		t.Fatal("unknown form name should fall back to K1")
	}
}

func hasField(cols []Column, field string) bool {
	for _, col := range cols {
		if col.Field == field {
			return true
		}
	}
	return false
}

func TestK9LayoutCarriesPackColumns(t *testing.T) {
	for _, key := range []FormType{FormK1, FormK2, FormK3, FormK8} {
		cols := ColumnsForFormType(key)
		if hasField(cols, "packQty") || hasField(cols, "packUOM") {
			t.Errorf("%s should not carry pack columns", key)
		}
	}
	for _, key := range []FormType{FormK9, FormSealnetK9} {
		cols := ColumnsForFormType(key)
		if !hasField(cols, "packQty") || !hasField(cols, "packUOM") {
			t.Errorf("%s missing pack columns", key)
		}
	}
}

func TestSealnetLayoutsExtendBase(t *testing.T) {
	sealnetKeys := []FormType{
		FormSealnetK1, FormSealnetK2, FormSealnetK3, FormSealnetK8, FormSealnetK9,
	}
	for _, key := range sealnetKeys {
		cols := ColumnsForFormType(key)
		if cols[0].Field != "productCode" {
			t.Errorf("%s should lead with productCode, got %q", key, cols[0].Field)
		}
		if cols[len(cols)-1].Field != "extraDescription" {
			t.Errorf("%s should end with extraDescription, got %q", key, cols[len(cols)-1].Field)
		}
	}
	for _, key := range []FormType{FormK1, FormK2, FormK3, FormK8, FormK9} {
		if hasField(ColumnsForFormType(key), "productCode") {
			t.Errorf("%s should not carry productCode", key)
		}
	}
}

func TestAvailableFormTypes(t *testing.T) {
	infos := AvailableFormTypes()
	if len(infos) != 10 {
		t.Fatalf("got %d registered layouts want 10", len(infos))
	}
	seen := map[FormType]bool{}
	for _, info := range infos {
		if info.Name == "" || info.Description == "" {
			t.Errorf("%s missing name or description", info.Key)
		}
		if seen[info.Key] {
			t.Errorf("duplicate key %s", info.Key)
		}
		seen[info.Key] = true
	}
	if infos[0].Key != FormK1 {
		t.Fatalf("K1 should come first, got %s", infos[0].Key)
	}
}
