package util

import "testing"

func TestRedact(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"token": "abcd1234efgh"}`, `{"token": "[redacted]"}`},
		{"password=hunter22", "password=[redacted]"},
		{"contact ops@example.com", "contact [redacted-email]"},
		{"temperature=21.5", "temperature=21.5"},
	}
	for _, tc := range cases {
		if got := Redact(tc.in); got != tc.want {
			t.Fatalf("Redact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
