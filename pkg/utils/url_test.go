package utils

import "testing"

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"server relative", "https://lib.example", "/stream/{pageNumber}", "https://lib.example/stream/{pageNumber}"},
		{"base with slash", "https://lib.example/", "/api/opds/key", "https://lib.example/api/opds/key"},
		{"relative segment", "https://lib.example/kavita", "cover.png", "https://lib.example/kavita/cover.png"},
		{"absolute href", "https://lib.example", "https://cdn.example/p/{pageNumber}", "https://cdn.example/p/{pageNumber}"},
		{"scheme relative", "https://lib.example", "//cdn.example/p.jpg", "https://cdn.example/p.jpg"},
		{"scheme relative over http", "http://192.168.1.10:5000", "//cdn.example/p.jpg", "http://cdn.example/p.jpg"},
		{"scheme relative without base", "", "//cdn.example/p.jpg", "https://cdn.example/p.jpg"},
		{"empty href", "https://lib.example", "", "https://lib.example"},
		{"empty base", "", "/stream/1", "/stream/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinURL(tt.base, tt.href); got != tt.want {
				t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}

func TestIsAbsoluteURL(t *testing.T) {
	if !IsAbsoluteURL("https://lib.example/x") {
		t.Error("Expected https URL to be absolute")
	}
	if IsAbsoluteURL("/api/opds") {
		t.Error("Expected path to be relative")
	}
}
