package model

// FragmentFailure records a rule fragment that could not be compiled.
type FragmentFailure struct {
	Fragment string `json:"fragment"`
	Reason   string `json:"reason"`
	Index    int    `json:"index"`
}

// SignDesc is a compiled RPA sign description. It owns its rules.
type SignDesc struct {
	Code        string            `json:"code,omitempty"`
	RawText     string            `json:"raw_text"`
	CleanedText string            `json:"cleaned_text"`
	Rules       []SignRule        `json:"rules"`
	Failures    []FragmentFailure `json:"failures,omitempty"`
}

// Metadata returns the leftover text of every rule that has some, in rule
// order and without deduplication.
func (d *SignDesc) Metadata() []string {
	var out []string
	for _, r := range d.Rules {
		if md, ok := r.Metadata(); ok {
			out = append(out, md)
		}
	}
	return out
}

// Export returns the description as a nested map.
func (d *SignDesc) Export() map[string]any {
	rules := make([]map[string]any, len(d.Rules))
	for i, r := range d.Rules {
		rules[i] = r.Export()
	}

	out := map[string]any{
		"raw_text":     d.RawText,
		"cleaned_text": d.CleanedText,
		"rules":        rules,
		"metadata":     d.Metadata(),
	}
	if d.Code != "" {
		out["code"] = d.Code
	}
	if len(d.Failures) > 0 {
		out["failures"] = d.Failures
	}
	return out
}
