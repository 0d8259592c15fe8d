package version

import "testing"

func TestShortCommit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0123456789abcdef", want: "0123456"},
		{in: "abc", want: "abc"},
		{in: "unknown", want: "unknown"},
	}
	for _, tt := range tests {
		if got := shortCommit(tt.in); got != tt.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
