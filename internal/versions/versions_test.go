package versions

import (
	"testing"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind Kind
		wantErr  bool
	}{
		{"empty is latest", "", Latest, false},
		{"whitespace is latest", "   ", Latest, false},
		{"exact", "13.6.0", Exact, false},
		{"exact with v", "v12.17.4", Exact, false},
		{"prerelease", "14.0.0-beta.1", Exact, false},
		{"caret range", "^13.0.0", Range, false},
		{"comparison range", ">=12 <14", Range, false},
		{"major only", "13", Range, false},
		{"dist tag", "latest", Tag, false},
		{"dist tag beta", "beta", Tag, false},
		{"garbage", "13..0!", Latest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelector(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got selector %+v", sel)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sel.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", sel.Kind, tt.wantKind)
			}
		})
	}
}

func TestSelectorPreservesRaw(t *testing.T) {
	sel, err := ParseSelector("v12.17.4")
	if err != nil {
		t.Fatal(err)
	}
	if sel.Raw != "v12.17.4" {
		t.Errorf("Raw = %q, want verbatim input", sel.Raw)
	}
	if sel.Version() != "12.17.4" {
		t.Errorf("Version() = %q, want %q", sel.Version(), "12.17.4")
	}
	if !sel.Pinned() {
		t.Error("exact selector should be pinned")
	}
}

func TestSelectorMatches(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		recorded string
		want     bool
		wantErr  bool
	}{
		{"exact equal", "13.6.0", "13.6.0", true, false},
		{"exact with caret recorded", "13.6.0", "^13.6.0", true, false},
		{"exact mismatch", "13.6.0", "13.6.1", false, false},
		{"range satisfied", "^13.0.0", "^13.6.0", true, false},
		{"range not satisfied", "^12.0.0", "13.6.0", false, false},
		{"latest any", "", "^13.6.0", true, false},
		{"range recorded as typed", ">=12 <14", ">=12 <14", true, false},
		{"range recorded with extra spaces", ">=12 <14", ">=12  <14", true, false},
		{"different range recorded", ">=12 <14", ">=13 <15", false, false},
		{"exact with range recorded", "13.6.0", ">=13 <14", false, false},
		{"latest with range recorded", "", ">=13 <14", true, false},
		{"unparsable recorded", "13.6.0", "file:../cypress", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseSelector(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			got, err := sel.Matches(tt.recorded)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.recorded, got, tt.want)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		latest   string
		expected int
		wantErr  bool
	}{
		{"older patch", "1.0.0", "1.0.1", -1, false},
		{"equal", "1.2.3", "1.2.3", 0, false},
		{"newer", "1.1.0", "1.0.0", 1, false},
		{"v prefix both", "v1.0.0", "v1.0.1", -1, false},
		{"prerelease less than release", "1.0.0-beta", "1.0.0", -1, false},
		{"invalid current", "notaversion", "1.0.0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CompareVersions(tt.current, tt.latest)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.current, tt.latest, result, tt.expected)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	ok, err := AtLeast("2.43.0", "2.28.0")
	if err != nil || !ok {
		t.Errorf("AtLeast(2.43.0, 2.28.0) = %v, %v", ok, err)
	}
	ok, err = AtLeast("v16.20.0", "18.0.0")
	if err != nil || ok {
		t.Errorf("AtLeast(v16.20.0, 18.0.0) = %v, %v", ok, err)
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"git version 2.43.0", "2.43.0", true},
		{"v20.11.1\n", "20.11.1", true},
		{"10.2.4", "10.2.4", true},
		{"1.85", "1.85", true},
		{"no digits here", "", false},
	}
	for _, tt := range tests {
		got, ok := Extract(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Extract(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
