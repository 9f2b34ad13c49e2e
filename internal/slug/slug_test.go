package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNormalize_DefaultOptions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "punctuation and spaces", in: "Section Title!", want: "section-title"},
		{name: "percent encoded space", in: "Section%20Title", want: "section-title"},
		{name: "french accents and ampersand", in: "Élève & Maître", want: "eleve-et-maitre"},
		{name: "apostrophe removed not separated", in: "L'œuvre", want: "loeuvre"},
		{name: "strip set characters", in: "C++ (avancé)", want: "c-avance"},
		{name: "colon and at sign", in: "Café: l'été @ Paris", want: "cafe-lete-paris"},
		{name: "hyphenated word", in: "déjà-vu", want: "deja-vu"},
		{name: "leading and trailing separators", in: "  --Hello--  ", want: "hello"},
		{name: "encoded accent", in: "r%C3%A9sum%C3%A9", want: "resume"},
		{name: "existing heading id", in: "installation-rapide", want: "installation-rapide"},
		{name: "numbered heading", in: "1.2 Configuration", want: "12-configuration"},
		{name: "underscores collapse", in: "snake_case_name", want: "snake-case-name"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_MalformedEscapesFallBackToRaw(t *testing.T) {
	s := New(DefaultOptions())
	inputs := []string{
		"100%",
		"%zz-section",
		"titre%2",
		"%E9t%E9",
		"a%%b",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			require.NotPanics(t, func() { _ = s.Normalize(in) })
			require.Equal(t, s.Slugify(in), s.Normalize(in))
		})
	}

	require.Equal(t, "100pourcent", s.Normalize("100%"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Section Title!",
		"Élève & Maître",
		"Größe",
		"#fragment",
		"%41%42",
		"100%",
		"  spaced   out  ",
		"déjà-vu",
		"C'est l'été (2024)",
		"∞ & beyond",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	s := New(DefaultOptions())
	in := "Référence API: « Utilisateurs » & rôles"
	first := s.Normalize(in)
	for range 50 {
		require.Equal(t, first, s.Normalize(in))
	}
}

func TestSlugify_GermanLocale(t *testing.T) {
	opts := DefaultOptions()
	opts.Locale = language.German
	s := New(opts)

	require.Equal(t, "groesse-und-ueber", s.Slugify("Größe & Über"))
	require.Equal(t, "strasse", s.Slugify("STRAẞE"))
}

func TestSlugify_CapitalSharpS(t *testing.T) {
	require.Equal(t, "strasse", Normalize("Straße"))
	require.Equal(t, "strasse", Normalize("Straẞe"))
	require.Equal(t, "strasse", Normalize("STRAẞE"))
}

func TestSlugify_NonStrictKeepsSymbols(t *testing.T) {
	s := New(Options{Lower: true})

	require.Equal(t, "hello-world", s.Slugify("Hello   World"))
	require.Equal(t, "a_b-c", s.Slugify("a_b c"))
	require.Equal(t, "deja", s.Slugify("déjà"), "accents are folded")
}

func TestSlugify_NoLowercase(t *testing.T) {
	opts := DefaultOptions()
	opts.Lower = false

	require.Equal(t, "Section-Title", New(opts).Slugify("Section Title!"))
}

func TestSlugify_CustomReplacement(t *testing.T) {
	opts := DefaultOptions()
	opts.Replacement = "_"

	require.Equal(t, "guide_de_demarrage", New(opts).Slugify("Guide de démarrage"))
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("fr")
	require.NoError(t, err)
	require.Equal(t, language.French, tag)

	tag, err = ParseLocale("")
	require.NoError(t, err)
	require.Equal(t, language.Und, tag)

	_, err = ParseLocale("not a locale!")
	require.Error(t, err)
}

func TestCompileRemove(t *testing.T) {
	re, err := CompileRemove(DefaultRemovePattern)
	require.NoError(t, err)
	require.True(t, re.MatchString("!"))

	re, err = CompileRemove("")
	require.NoError(t, err)
	require.Nil(t, re)

	_, err = CompileRemove("[unclosed")
	require.Error(t, err)
}
