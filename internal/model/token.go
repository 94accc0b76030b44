package model

import "strings"

// TokenFromHeader extracts the token portion of an auth header value of the
// form "<scheme> <token>". The parsing is positional: the value is split on
// spaces and the second part is taken, the scheme is not validated. This is
// the only place the header shape is interpreted; everything past the
// transport boundary works with the extracted token.
func TokenFromHeader(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
