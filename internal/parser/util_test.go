package parser

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"25.99", 25.99, false},
		{"1,234.56", 1234.56, false},
		{"$25.99", 25.99, false},
		{"$1,234,567.89", 1234567.89, false},
		{"(150.00)", 150.00, false},
		{"0.00", 0.00, false},
		{"", 0, false},
		{" 25.99 ", 25.99, false},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestSanitizeOCRLine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"19,720; 15", "19,720.15"},
		{"1,234:56", "1,234.56"},
		{"balance 19,720.15: end", "balance 19,720.15 end"},
		{"ends with 42:", "ends with 42"},
		{"clean 1,234.56 line", "clean 1,234.56 line"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeOCRLine(tt.input)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name             string
		month, day, year string
		want             time.Time
		ok               bool
	}{
		{"four digit year", "03", "15", "2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"two digit year below pivot", "03", "15", "24", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"two digit year above pivot", "03", "15", "99", time.Date(1999, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"month out of range", "13", "05", "2024", time.Time{}, false},
		{"day out of range", "02", "30", "2024", time.Time{}, false},
		{"day 45", "13", "45", "2024", time.Time{}, false},
		{"leap day valid", "02", "29", "2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"leap day invalid", "02", "29", "2023", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeDate(tt.month, tt.day, tt.year)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAmountPatternRejectsBareIntegers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"CHECK 200 (150.00) 5,282.10", []string{"150.00", "5,282.10"}},
		{"FEE 25 5200.10", []string{"5200.10"}},
		{"ATM 1,200 4,232.10", []string{"1,200", "4,232.10"}},
		{"POS $45 remainder", []string{"$45"}},
		{"no amounts here 123", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := amountPattern.FindAllString(tt.input, -1)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
