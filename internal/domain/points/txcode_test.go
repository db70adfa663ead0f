package points

import (
	"strings"
	"testing"
)

func TestTransactionCodeFormat(t *testing.T) {
	code, err := GenerateTransactionCode()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("expected TXN-<ts>-<rand>, got %q", code)
	}
	if parts[0] != "TXN" {
		t.Errorf("expected TXN prefix, got %q", parts[0])
	}
	if len(parts[2]) != 6 {
		t.Errorf("expected 6 char random suffix, got %q", parts[2])
	}
	if code != strings.ToUpper(code) {
		t.Errorf("expected uppercase code, got %q", code)
	}
}

func TestTransactionCodeUniqueness(t *testing.T) {
	const n = 10000

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		code, err := GenerateTransactionCode()
		if err != nil {
			t.Fatalf("generate failed at %d: %v", i, err)
		}
		if seen[code] {
			t.Fatalf("collision after %d codes: %q", i, code)
		}
		seen[code] = true
	}
}
