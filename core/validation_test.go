package core

import (
	"errors"
	"testing"
)

func TestParseFiletypes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{
			name:  "default list",
			input: "xml,json,html",
			want:  []string{"xml", "json", "html"},
		},
		{
			name:  "normalizes case, dots and spaces",
			input: " .HTML , Txt,,pdf ",
			want:  []string{"html", "txt", "pdf"},
		},
		{
			name:  "duplicates collapse",
			input: "html,HTML,.html",
			want:  []string{"html"},
		},
		{
			name:  "empty means everything",
			input: "",
			want:  nil,
		},
		{
			name:    "wildcard rejected",
			input:   "html,*.txt",
			wantErr: ErrInvalidFiletype,
		},
		{
			name:    "path rejected",
			input:   "docs/html",
			wantErr: ErrInvalidFiletype,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFiletypes(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFiletypes() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFiletypes() unexpected error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFiletypes() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFiletypes()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseFiletypes_DefaultListIsValid(t *testing.T) {
	got, err := ParseFiletypes(DefaultFiletypes)
	if err != nil {
		t.Fatalf("default list should parse: %v", err)
	}
	if len(got) != 21 {
		t.Errorf("expected 21 default filetypes, got %d", len(got))
	}
}

func TestValidateConcurrency(t *testing.T) {
	if err := ValidateConcurrency(DefaultConcurrency); err != nil {
		t.Errorf("default concurrency should be valid: %v", err)
	}
	if err := ValidateConcurrency(1); err != nil {
		t.Errorf("1 should be valid: %v", err)
	}
	for _, n := range []int{0, -3} {
		if err := ValidateConcurrency(n); !errors.Is(err, ErrInvalidConcurrency) {
			t.Errorf("ValidateConcurrency(%d) error = %v, want ErrInvalidConcurrency", n, err)
		}
	}
}
