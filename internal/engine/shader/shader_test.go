package shader

import "testing"

func TestTerminated(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "\x00"},
		{"uColor", "uColor\x00"},
		{"uColor\x00", "uColor\x00"},
	}
	for _, tt := range tests {
		if got := Terminated(tt.in); got != tt.want {
			t.Errorf("Terminated(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimLog(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("0:1(1): error\n\x00"), "0:1(1): error"},
		{[]byte("\x00\x00"), ""},
		{[]byte("ok"), "ok"},
	}
	for _, tt := range tests {
		if got := TrimLog(tt.in); got != tt.want {
			t.Errorf("TrimLog(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
