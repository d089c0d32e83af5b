package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		accept   string
		expected language.Tag
	}{
		{"en-US,en;q=0.9", language.English},
		{"de-DE,de;q=0.9", language.German},
		{"fr-FR", language.English}, // Fallback
		{"", language.English},      // Empty
	}

	for _, tt := range tests {
		got := MatchLanguage(tt.accept)
		// only the base language is stable across matcher versions
		base, _ := got.Base()
		exp, _ := tt.expected.Base()
		assert.Equal(t, exp, base, "Accept: %s", tt.accept)
	}
}

func TestLocaleTag(t *testing.T) {
	tests := []struct {
		values []string
		want   language.Base
	}{
		{[]string{"", ""}, language.MustParseBase("en")},
		{[]string{"", "C"}, language.MustParseBase("en")},
		{[]string{"de_DE.UTF-8", "en_US.UTF-8"}, language.MustParseBase("de")},
		{[]string{"", "de_AT"}, language.MustParseBase("de")},
		{[]string{"fr_FR.UTF-8"}, language.MustParseBase("en")},
	}

	for _, tt := range tests {
		base, _ := localeTag(tt.values...).Base()
		assert.Equal(t, tt.want, base, "values: %v", tt.values)
	}
}

func TestCatalog(t *testing.T) {
	de := NewPrinter(language.German)
	assert.Equal(t, "Regel web: ok\n", de.Sprintf("rule %s: ok\n", "web"))

	en := NewPrinter(language.English)
	assert.Equal(t, "rule web: ok\n", en.Sprintf("rule %s: ok\n", "web"))
}

func TestCatalog_GermanComplete(t *testing.T) {
	require.NoError(t, register(language.German, german))

	de := NewPrinter(language.German)
	en := NewPrinter(language.English)
	for key, msg := range german {
		assert.NotEqual(t, key, msg, "key %q is untranslated", key)
		assert.NotEqual(t, en.Sprint(key), de.Sprintf(key), "key %q", key)
	}
}

func TestNewCLIPrinter(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	p := NewCLIPrinter()
	assert.Equal(t, "Keine Änderungen gefunden.\n", p.Sprintf("No changes detected.\n"))
}
