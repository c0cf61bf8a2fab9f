package models

// Overrides is the manual correction file applied on every summary run.
// similarLabels and layovers are mandatory; ignore is a legacy section.
type Overrides struct {
	SimilarLabels *LabelAliases `json:"similarLabels" validate:"required"`
	Ignore        *IgnoreRules  `json:"ignore,omitempty"`
	Layovers      *Layovers     `json:"layovers" validate:"required"`
}

// LabelAliases maps a raw label to its canonical label
type LabelAliases struct {
	Labels map[string]string `json:"labels"`
}

// IgnoreRules lists labels that are never emitted
type IgnoreRules struct {
	Labels []string `json:"labels"`
}

// Layovers lists snapshot identifiers that are never emitted
type Layovers struct {
	Hashes []string `json:"hashes"`
}
