package model

// ExtractedEntity is one candidate node produced by the language model.
// Type and Properties are untrusted until the graph layer validates them.
type ExtractedEntity struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// ExtractedRelationship is one candidate edge produced by the language
// model. Endpoints are referenced by property match, not by id, because
// the model has no knowledge of store identifiers.
type ExtractedRelationship struct {
	FromType  string         `json:"from_type"`
	FromProps map[string]any `json:"from_props"`
	RelType   string         `json:"rel_type"`
	ToType    string         `json:"to_type"`
	ToProps   map[string]any `json:"to_props"`
	RelProps  map[string]any `json:"rel_props,omitempty"`
}

// Extraction is the full structured output of one extraction call.
type Extraction struct {
	Entities      []ExtractedEntity       `json:"entities"`
	Relationships []ExtractedRelationship `json:"relationships"`
}

// Empty reports whether the extraction carries nothing to apply.
func (e Extraction) Empty() bool {
	return len(e.Entities) == 0 && len(e.Relationships) == 0
}
