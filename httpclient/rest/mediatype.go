package rest

import (
	"mime"
	"strings"
)

const wildcard = "*"

// mediaType returns the lower-cased type and subtype of s with parameters
// dropped. ok is false when s is not a type/subtype pair.
func mediaType(s string) (typ, sub string, ok bool) {
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return "", "", false
	}
	typ, sub, ok = strings.Cut(mt, "/")
	if !ok || typ == "" || sub == "" {
		return "", "", false
	}
	// "*/xml" names no media range.
	if typ == wildcard && sub != wildcard {
		return "", "", false
	}
	return typ, sub, true
}

// sameMediaType reports exact type/subtype equality. Wildcards are literals.
func sameMediaType(a, b string) bool {
	at, as, ok := mediaType(a)
	if !ok {
		return false
	}
	bt, bs, ok := mediaType(b)
	if !ok {
		return false
	}
	return at == bt && as == bs
}

// compatibleMediaType reports whether a and b overlap as media ranges:
// */* matches anything and type/* matches every subtype of type, on
// either side.
func compatibleMediaType(a, b string) bool {
	at, as, ok := mediaType(a)
	if !ok {
		return false
	}
	bt, bs, ok := mediaType(b)
	if !ok {
		return false
	}
	if at == wildcard || bt == wildcard {
		return true
	}
	if at != bt {
		return false
	}
	return as == wildcard || bs == wildcard || as == bs
}
