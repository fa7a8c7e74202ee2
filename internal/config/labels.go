package config

import (
	"strings"
	"unicode"
)

// Label languages.
const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

// DomainLabel returns the display label of a domain key. Unknown keys fall
// back to the title-cased key in English and the raw key otherwise.
func (c *Config) DomainLabel(key, lang string) string {
	label, ok := c.Domains[key]
	if !ok {
		label = DomainLabel{En: titleWords(key), Ar: key}
	}
	if lang == LangEnglish {
		return label.En
	}
	return label.Ar
}

// Labels returns the label of every given key in both languages.
func (c *Config) Labels(keys []string) map[string]DomainLabel {
	out := make(map[string]DomainLabel, len(keys))
	for _, k := range keys {
		out[k] = DomainLabel{En: c.DomainLabel(k, LangEnglish), Ar: c.DomainLabel(k, LangArabic)}
	}
	return out
}

// titleWords turns "work_orders" into "Work Orders".
func titleWords(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
