package access

import "strings"

// Principal identifies an account acting on the issuer.
type Principal string

// ParsePrincipal normalizes s and rejects empty values.
func ParsePrincipal(s string) (Principal, error) {
	p := Principal(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return "", ErrInvalidPrincipal
	}
	return p, nil
}

// ParsePrincipals normalizes every entry of ss.
func ParsePrincipals(ss []string) ([]Principal, error) {
	out := make([]Principal, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePrincipal(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// IsZero reports whether p is unset.
func (p Principal) IsZero() bool {
	return p == ""
}

func (p Principal) String() string {
	return string(p)
}
