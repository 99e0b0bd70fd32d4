package domain

import "testing"

func TestBaseOrderIdentifier(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "stripsLetterSuffix", id: "DO-022A", want: "DO-022"},
		{name: "noSuffixUnchanged", id: "DO-12", want: "DO-12"},
		{name: "multiCharSuffix", id: "DO-100AB", want: "DO-100"},
		{name: "noPrefixIsOwnBase", id: "SO-445", want: "SO-445"},
		{name: "plainStringUnchanged", id: "legacy-order", want: "LEGACY-ORDER"},
		{name: "lowercaseNormalized", id: "do-022a", want: "DO-022"},
		{name: "whitespaceTrimmed", id: "  DO-7B ", want: "DO-7"},
		{name: "empty", id: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseOrderIdentifier(tt.id); got != tt.want {
				t.Errorf("BaseOrderIdentifier(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "do-005", want: "DO-005"},
		{id: " DO-005 ", want: "DO-005"},
		{id: "DO-005", want: "DO-005"},
	}

	for _, tt := range tests {
		if got := NormalizeIdentifier(tt.id); got != tt.want {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
