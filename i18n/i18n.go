// Package i18n holds the Spanish and English label sets and locale-aware formatting.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Bundle maps language -> dotted key -> translation.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported map[string]struct{}
}

// Default loads the embedded es/en locales. An unknown fallback becomes "es".
func Default(fallback string) (*Bundle, error) {
	if fallback != "en" {
		fallback = "es"
	}
	return Load(embedded, "locales", fallback, []string{"es", "en"})
}

// Load reads <dir>/<lang>.yaml from fsys for every supported language. Only the
// fallback locale is mandatory. Nested YAML maps are flattened into dotted keys.
func Load(fsys fs.FS, dir, fallback string, supported []string) (*Bundle, error) {
	b := &Bundle{
		dict:      map[string]map[string]string{},
		fallback:  fallback,
		supported: map[string]struct{}{},
	}
	for _, l := range supported {
		b.supported[l] = struct{}{}
		raw, err := fs.ReadFile(fsys, path.Join(dir, l+".yaml"))
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("i18n: load locale %s: %w", l, err)
			}
			continue
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("i18n: unmarshal %s: %w", l, err)
		}
		m := map[string]string{}
		flatten("", tree, m)
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s not loaded", fallback)
	}
	return b, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Supported returns the configured languages, sorted.
func (b *Bundle) Supported() []string {
	out := make([]string, 0, len(b.supported))
	for k := range b.supported {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang has a label set.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.supported[lang]
	return ok
}

// T returns translation for key in lang, falling back to default and finally key.
func (b *Bundle) T(lang, key string) string {
	if lang != "" {
		if m, ok := b.dict[lang]; ok {
			if v, ok := m[key]; ok {
				return v
			}
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Tf formats the translation for key with args.
func (b *Bundle) Tf(lang, key string, args ...any) string {
	return fmt.Sprintf(b.T(lang, key), args...)
}

// Other returns the language the toggle switches to.
func (b *Bundle) Other(lang string) string {
	if lang == "en" {
		return "es"
	}
	return "en"
}

// FormatDeadline renders a day/month/year deadline with the month abbreviated
// for lang, e.g. 31/dic/2099. Anything else is returned unchanged.
func (b *Bundle) FormatDeadline(raw, lang string) string {
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return raw
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 1 || m > 12 {
		return raw
	}
	months := strings.Split(b.T(lang, "months"), ",")
	if len(months) != 12 {
		return raw
	}
	return parts[0] + "/" + months[m-1] + "/" + parts[2]
}

// Resolve chooses best language from Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	type langPref struct {
		base string
		q    float64
		pos  int
	}
	prefs := make([]langPref, 0, 8)
	for i, raw := range strings.Split(acceptLang, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		q := 1.0
		if sc := strings.IndexByte(p, ';'); sc != -1 {
			params := strings.TrimSpace(p[sc+1:])
			p = strings.TrimSpace(p[:sc])
			if strings.HasPrefix(params, "q=") {
				if v, err := strconv.ParseFloat(strings.TrimPrefix(params, "q="), 64); err == nil {
					q = v
				}
			}
		}
		base := p
		if dash := strings.IndexByte(p, '-'); dash != -1 {
			base = p[:dash]
		}
		prefs = append(prefs, langPref{base: strings.ToLower(base), q: q, pos: i})
	}
	sort.SliceStable(prefs, func(i, j int) bool {
		if prefs[i].q == prefs[j].q {
			return prefs[i].pos < prefs[j].pos
		}
		return prefs[i].q > prefs[j].q
	})
	for _, lp := range prefs {
		if lp.q > 0 && b.IsSupported(lp.base) {
			return lp.base
		}
	}
	return b.fallback
}
