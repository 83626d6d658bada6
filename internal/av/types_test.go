// Tests for the attribute-view model.

package av

import (
	"encoding/json"
	"testing"
)

func TestOptionColor(t *testing.T) {
	if got := OptionColor(0); got != "1" {
		t.Errorf("OptionColor(0) = %q, want %q", got, "1")
	}
	if got := OptionColor(13); got != "14" {
		t.Errorf("OptionColor(13) = %q, want %q", got, "14")
	}
	// Palette wraps around.
	if got := OptionColor(14); got != "1" {
		t.Errorf("OptionColor(14) = %q, want %q", got, "1")
	}
}

func TestValueSerialization(t *testing.T) {
	v := &Value{
		ID:      "20231005123055-aaaaaaa",
		KeyID:   "20231005123055-bbbbbbb",
		BlockID: "20231005123055-ccccccc",
		Type:    KeyTypeCheckbox,
		Checkbox: &ValueCheckbox{
			Checked: true,
		},
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got Value
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Type != KeyTypeCheckbox || got.Checkbox == nil || !got.Checkbox.Checked {
		t.Errorf("round trip lost checkbox payload: %+v", got)
	}
	// Untyped payloads must stay absent, not serialize as empty objects.
	for _, absent := range []string{"block", "text", "number", "date", "mSelect", "mAsset"} {
		if v, ok := mapKeys(data)[absent]; ok {
			t.Errorf("unexpected %q payload in %s", absent, v)
		}
	}
}

func mapKeys(data []byte) map[string]json.RawMessage {
	m := make(map[string]json.RawMessage)
	_ = json.Unmarshal(data, &m)
	return m
}
