package engine

// Normalizer turns a raw description into canonical text, with independent
// rule fragments joined by normalize.RuleSeparator.
type Normalizer interface {
	Normalize(raw string) (string, error)
}
