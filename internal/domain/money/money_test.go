package money_test

import (
	"encoding/json"
	"testing"

	"clubhouse/internal/domain/money"
)

// TestInputUnmarshal checks the default-to-zero policy for paid fields.
func TestInputUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantSet bool
	}{
		{"number", `{"paid": 2500}`, "2500", true},
		{"decimal", `{"paid": 12.5}`, "12.5", true},
		{"numeric string", `{"paid": "300"}`, "300", true},
		{"garbage string", `{"paid": "abc"}`, "0", true},
		{"boolean", `{"paid": true}`, "0", true},
		{"null", `{"paid": null}`, "0", false},
		{"missing", `{}`, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Paid money.Input `json:"paid"`
			}
			if err := json.Unmarshal([]byte(tt.body), &body); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if body.Paid.Value.String() != tt.want {
				t.Errorf("Value = %s, want %s", body.Paid.Value, tt.want)
			}
			if body.Paid.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", body.Paid.Set, tt.wantSet)
			}
		})
	}
}

// TestAmountMarshalsAsNumber guards the wire format of persisted amounts.
func TestAmountMarshalsAsNumber(t *testing.T) {
	out, err := json.Marshal(map[string]money.Amount{"expected": money.New(3000)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"expected":3000}` {
		t.Errorf("Marshal() = %s, want {\"expected\":3000}", out)
	}
}

func TestParse(t *testing.T) {
	if _, err := money.Parse("12x"); err != money.ErrInvalid {
		t.Errorf("Parse(12x) error = %v, want ErrInvalid", err)
	}
	got, err := money.Parse(" 40 ")
	if err != nil || !got.Equal(money.New(40)) {
		t.Errorf("Parse(40) = %v, %v", got, err)
	}
	if !money.NonNegative(money.New(-5)).IsZero() {
		t.Error("NonNegative(-5) should be zero")
	}
}
