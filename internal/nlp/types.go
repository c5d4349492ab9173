package nlp

import "encoding/json"

// Well-known entity kinds.
const (
	KindNeighborhood = "neighborhood"
	KindDatetime     = "datetime"
)

// Entity is one candidate interpretation of part of the query.
// Value is kept raw because some kinds return structured values.
type Entity struct {
	Confidence float64         `json:"confidence"`
	Value      json.RawMessage `json:"value,omitempty"`
	Metadata   string          `json:"metadata,omitempty"`
}

// StringValue returns Value when it is a JSON string, otherwise "".
func (e Entity) StringValue() string {
	var s string
	if len(e.Value) == 0 || json.Unmarshal(e.Value, &s) != nil {
		return ""
	}
	return s
}

// Response is the decoded reply of the message endpoint.
type Response struct {
	Text     string              `json:"_text,omitempty"`
	Entities map[string][]Entity `json:"entities"`
}

// First returns the highest ranked candidate of a kind.
func (r *Response) First(kind string) (Entity, bool) {
	if r == nil {
		return Entity{}, false
	}
	candidates := r.Entities[kind]
	if len(candidates) == 0 {
		return Entity{}, false
	}
	return candidates[0], true
}

// timeDependent reports whether the reply holds values resolved against the
// service clock.
func (r *Response) timeDependent() bool {
	return len(r.Entities[KindDatetime]) > 0
}
