package core

import (
	"reflect"
	"testing"
)

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "two variables",
			content: "Hello [name], welcome to [place]",
			want:    []string{"name", "place"},
		},
		{
			name:    "empty content",
			content: "",
			want:    []string{},
		},
		{
			name:    "no variables",
			content: "plain text without placeholders",
			want:    []string{},
		},
		{
			name:    "duplicates collapsed, order preserved",
			content: "[b] then [a] then [b] again",
			want:    []string{"b", "a"},
		},
		{
			name:    "names are trimmed",
			content: "[ name ] and [name]",
			want:    []string{"name"},
		},
		{
			name:    "empty brackets ignored",
			content: "empty [] and [ ] here",
			want:    []string{},
		},
		{
			name:    "nested brackets are not matched as one group",
			content: "[outer [inner]]",
			want:    []string{"inner"},
		},
		{
			name:    "case sensitive names",
			content: "[Name] and [name]",
			want:    []string{"Name", "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVariables(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractVariables(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestReplaceVariables(t *testing.T) {
	tests := []struct {
		name    string
		content string
		values  map[string]string
		want    string
	}{
		{
			name:    "single replacement",
			content: "Hello [name], welcome to [place]",
			values:  map[string]string{"name": "Ann"},
			want:    "Hello Ann, welcome to [place]",
		},
		{
			name:    "all replaced",
			content: "Hello [name], welcome to [place]",
			values:  map[string]string{"name": "Ann", "place": "Oslo"},
			want:    "Hello Ann, welcome to Oslo",
		},
		{
			name:    "empty value erases placeholder",
			content: "Hello [name]!",
			values:  map[string]string{"name": ""},
			want:    "Hello !",
		},
		{
			name:    "no matching keys leaves content unchanged",
			content: "Hello [name]",
			values:  map[string]string{"other": "x"},
			want:    "Hello [name]",
		},
		{
			name:    "nil values leaves content unchanged",
			content: "Hello [name]",
			values:  nil,
			want:    "Hello [name]",
		},
		{
			name:    "every occurrence replaced",
			content: "[x] and [x] and [x]",
			values:  map[string]string{"x": "y"},
			want:    "y and y and y",
		},
		{
			name:    "regex metacharacters in name are literal",
			content: "cost: [a.b]",
			values:  map[string]string{"a.b": "10"},
			want:    "cost: 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReplaceVariables(tt.content, tt.values)
			if got != tt.want {
				t.Errorf("ReplaceVariables() = %q, want %q", got, tt.want)
			}
		})
	}
}

// A value containing another placeholder must expand identically on
// every call; map iteration order cannot leak into the output.
func TestReplaceVariablesDeterministic(t *testing.T) {
	content := "[a] [b]"
	values := map[string]string{"a": "[b]", "b": "2"}

	for i := 0; i < 50; i++ {
		if got := ReplaceVariables(content, values); got != "2 2" {
			t.Fatalf("ReplaceVariables() = %q, want %q", got, "2 2")
		}
	}
}

// Substituting a variable must consume its placeholder: extraction over the
// result yields only the placeholders that were not supplied.
func TestReplaceThenExtract(t *testing.T) {
	content := "Ship [item] to [name] at [place]"
	out := ReplaceVariables(content, map[string]string{"item": "books", "place": "Oslo"})

	got := ExtractVariables(out)
	want := []string{"name"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractVariables(after replace) = %v, want %v", got, want)
	}
}
