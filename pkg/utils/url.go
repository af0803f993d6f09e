package utils

import "strings"

// IsAbsoluteURL reports whether raw carries its own scheme and host.
func IsAbsoluteURL(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") || strings.HasPrefix(raw, "//")
}

// JoinURL prefixes a server-relative href with base. Absolute hrefs are returned
// unchanged and scheme-relative ones take the scheme of base. The href is never
// escaped, so template tokens such as {pageNumber} survive verbatim.
func JoinURL(base, href string) string {
	if href == "" {
		return base
	}
	if strings.HasPrefix(href, "//") {
		scheme := "https"
		if i := strings.Index(base, "://"); i > 0 {
			scheme = base[:i]
		}
		return scheme + ":" + href
	}
	if IsAbsoluteURL(href) {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimSuffix(base, "/") + href
	}
	if base == "" || strings.HasSuffix(base, "/") {
		return base + href
	}
	return base + "/" + href
}
