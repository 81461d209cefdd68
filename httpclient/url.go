package httpclient

import (
	"net/url"
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*://`)

// HasScheme reports whether raw starts with a URL scheme such as "https://".
func HasScheme(raw string) bool {
	return schemePattern.MatchString(raw)
}

// ResolveURL returns target extended below base (see ExtendURL), or target
// alone when base is empty or target already carries a scheme. The result
// must be an absolute URL with a host.
func ResolveURL(base, target string) (*url.URL, error) {
	var u *url.URL
	if base != "" && !HasScheme(target) {
		b, err := url.Parse(base)
		if err != nil {
			return nil, NewInvalidURLError(base, err)
		}
		if u, err = ExtendURL(b, target); err != nil {
			return nil, err
		}
	} else {
		var err error
		if u, err = url.Parse(target); err != nil {
			return nil, NewInvalidURLError(target, err)
		}
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, NewInvalidURLError(u.String(), nil)
	}
	return u, nil
}

// ExtendURL returns base with path appended to its path, exactly one slash
// at the seam. The query of base is kept and a query carried by path, as in
// "items?page=2", is appended to it. The fragment of base is dropped.
func ExtendURL(base *url.URL, path string) (*url.URL, error) {
	p, query, _ := strings.Cut(path, "?")

	prefix := *base
	prefix.RawQuery = ""
	prefix.ForceQuery = false
	prefix.Fragment = ""
	prefix.RawFragment = ""

	u, err := url.Parse(JoinPath(prefix.String(), p))
	if err != nil {
		return nil, NewInvalidURLError(path, err)
	}
	u.RawQuery = joinQuery(base.RawQuery, query)
	return u, nil
}

func joinQuery(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "&" + b
	}
}

// JoinPath concatenates two URL path fragments with exactly one slash
// between them. An empty suffix returns prefix unchanged.
func JoinPath(prefix, suffix string) string {
	if suffix == "" {
		return prefix
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(suffix, "/")
}
