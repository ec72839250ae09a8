package cipher

import (
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// PHC is a minimal PHC-format ($id$param=value,...$salt) string holding a
// KDF's identifier, parameters and salt.
//
// Unlike a typical PHC password hash, this intentionally never carries the
// derived hash/key itself: the PHSF chunk travels inside the archive, so
// embedding the key would let anyone who can read the archive recover it
// without the password. Both the writer and the reader instead re-derive
// the key from the password plus these parameters, and the only signal
// that the password was wrong is a downstream decrypt failure (spec §4.4
// BadKey). See SPEC_FULL.md's Supplemented Features for the rationale
// against using a library (e.g. alexedwards/argon2id) that bundles the
// hash into the string.
type PHC struct {
	ID     string
	Params map[string]string
	Salt   []byte
}

// String renders p as a PHC string.
func (p PHC) String() string {
	var b strings.Builder
	b.WriteByte('$')
	b.WriteString(p.ID)
	if len(p.Params) > 0 {
		b.WriteByte('$')
		keys := p.paramOrder()
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(p.Params[k])
		}
	}
	b.WriteByte('$')
	b.WriteString(base64.RawStdEncoding.EncodeToString(p.Salt))
	return b.String()
}

// paramOrder returns parameter keys in a fixed, deterministic order so two
// PHC values with the same params always stringify identically.
func (p PHC) paramOrder() []string {
	order := []string{"m", "t", "p", "i"}
	var keys []string
	for _, k := range order {
		if _, ok := p.Params[k]; ok {
			keys = append(keys, k)
		}
	}
	for k := range p.Params {
		found := false
		for _, o := range order {
			if o == k {
				found = true
				break
			}
		}
		if !found {
			keys = append(keys, k)
		}
	}
	return keys
}

// ParsePHC parses a string produced by PHC.String.
func ParsePHC(s string) (PHC, error) {
	if !strings.HasPrefix(s, "$") {
		return PHC{}, xerrors.Errorf("cipher: phc string must start with '$': %q", s)
	}
	parts := strings.Split(s[1:], "$")
	if len(parts) != 2 && len(parts) != 3 {
		return PHC{}, xerrors.Errorf("cipher: malformed phc string: %q", s)
	}
	out := PHC{ID: parts[0], Params: map[string]string{}}
	saltField := parts[len(parts)-1]
	if len(parts) == 3 {
		for _, kv := range strings.Split(parts[1], ",") {
			if kv == "" {
				continue
			}
			eq := strings.IndexByte(kv, '=')
			if eq < 0 {
				return PHC{}, xerrors.Errorf("cipher: malformed phc parameter %q in %q", kv, s)
			}
			out.Params[kv[:eq]] = kv[eq+1:]
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltField)
	if err != nil {
		return PHC{}, xerrors.Errorf("cipher: malformed phc salt: %w", err)
	}
	out.Salt = salt
	return out, nil
}

func (p PHC) paramUint(key string) (uint32, error) {
	v, ok := p.Params[key]
	if !ok {
		return 0, xerrors.Errorf("cipher: phc string missing parameter %q", key)
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, xerrors.Errorf("cipher: phc parameter %q=%q: %w", key, v, err)
	}
	return uint32(n), nil
}
