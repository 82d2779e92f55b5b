package core

import (
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		wantSame bool
	}{
		{
			name:     "same parts produce same fingerprint",
			a:        []string{"Greet", "Hello [name]"},
			b:        []string{"Greet", "Hello [name]"},
			wantSame: true,
		},
		{
			name:     "comparison is case-insensitive",
			a:        []string{"GREET", "HELLO"},
			b:        []string{"greet", "hello"},
			wantSame: true,
		},
		{
			name:     "comparison trims whitespace",
			a:        []string{"  greet  "},
			b:        []string{"greet"},
			wantSame: true,
		},
		{
			name:     "different content differs",
			a:        []string{"greet", "hello"},
			b:        []string{"greet", "goodbye"},
			wantSame: false,
		},
		{
			name:     "part boundaries matter",
			a:        []string{"ab", "c"},
			b:        []string{"a", "bc"},
			wantSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := Fingerprint(tt.a...)
			fb := Fingerprint(tt.b...)
			if (fa == fb) != tt.wantSame {
				t.Errorf("Fingerprint(%v) == Fingerprint(%v): got %v, want %v", tt.a, tt.b, fa == fb, tt.wantSame)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	if a == b {
		t.Fatal("NewID() returned the same value twice")
	}
	if len(a) != 36 {
		t.Errorf("NewID() = %q, want UUID-shaped string of length 36", a)
	}
}

func TestNewHomeFolder(t *testing.T) {
	home := NewHomeFolder()

	if home.Id != HomeFolderID {
		t.Errorf("home folder id = %q, want %q", home.Id, HomeFolderID)
	}
	if home.Name != "Home" {
		t.Errorf("home folder name = %q, want Home", home.Name)
	}
	if home.CreatedAt == 0 {
		t.Error("home folder should carry a creation timestamp")
	}
}
