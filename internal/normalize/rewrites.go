package normalize

// Rewrite is a named regular-expression substitution applied to the
// uppercased description text.
type Rewrite struct {
	Name    string
	Regex   string
	Replace string
}

// DefaultMarkerRewrites returns the idioms that all mean "no parking". Each
// is rewritten to the canonical marker surrounded by spaces.
func DefaultMarkerRewrites() []Rewrite {
	return []Rewrite{
		{
			Name:    "English gloss",
			Regex:   `\(?\bNO PARKING\b\)?`,
			Replace: ` \P `,
		},
		{
			Name:    "Interdiction de stationner",
			Regex:   `\bINTERDICTION DE STATIONNER\b`,
			Replace: ` \P `,
		},
		{
			Name:    "Stationnement interdit",
			Regex:   `\bSTATIONNEMENT INTERDIT\b`,
			Replace: ` \P `,
		},
		{
			Name:    "Stat int",
			Regex:   `\bSTAT INT\b`,
			Replace: ` \P `,
		},
		{
			Name:    "P interdit",
			Regex:   `(^|\s)P INTERDIT\b`,
			Replace: `$1 \P `,
		},
		{
			Name:    "Slash P",
			Regex:   `/P\b`,
			Replace: ` \P `,
		},
	}
}

// DefaultSpellingRewrites returns corrections for misspellings observed in
// the sign inventory.
func DefaultSpellingRewrites() []Rewrite {
	return []Rewrite{
		{
			Name:    "Avril",
			Regex:   `\b(?:AVIL|AVRL|AVIRL|AVRILL)\b`,
			Replace: "AVRIL",
		},
		{
			Name:    "Mars doubled letter",
			Regex:   `\bMARSS\b`,
			Replace: "MARS",
		},
		{
			Name:    "Mars repeated",
			Regex:   `\bMARS(?:\s+MARS)+\b`,
			Replace: "MARS",
		},
		{
			Name:    "Vendredi",
			Regex:   `\b(?:VENDERDI|VENDREDDI|VENRDEDI|VENDRDI)\b`,
			Replace: "VENDREDI",
		},
		{
			Name:    "Mercredi",
			Regex:   `\bMERCERDI\b`,
			Replace: "MERCREDI",
		},
	}
}

// DefaultSpacingRewrites returns the rules that separate glued tokens. The
// month rule is appended by New since it is built from the month table.
func DefaultSpacingRewrites() []Rewrite {
	return []Rewrite{
		{
			Name:    "Word then digit",
			Regex:   `([A-Z]{2,})(\d)`,
			Replace: "$1 $2",
		},
		{
			Name:    "Connector then digit",
			Regex:   `\b(A)(\d)`,
			Replace: "$1 $2",
		},
		{
			Name:    "Marker then digit",
			Regex:   `(\\P)(\d)`,
			Replace: "$1 $2",
		},
	}
}
