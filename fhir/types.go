// Package fhir defines the minimal FHIR R4 resource shapes qrforge emits.
//
// Only the fields this tool actually populates are modeled. All types
// marshal to standard FHIR JSON; optional fields are omitted when empty so
// servers never see null placeholders.
package fhir

// Coding represents a FHIR Coding element.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Reference is a literal reference to another resource, e.g. "Patient/123".
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display,omitempty"`
}

// Narrative is the human-readable summary carried in Resource.text.
type Narrative struct {
	Status string `json:"status"`
	Div    string `json:"div"`
}

// QuestionnaireItem is one question definition.
//
// Type is "choice" for coded answers and "string" for free text.
type QuestionnaireItem struct {
	LinkID string `json:"linkId"`
	Text   string `json:"text,omitempty"`
	Type   string `json:"type"`
}

// Questionnaire is the fixed schema the responses answer against.
type Questionnaire struct {
	ResourceType string              `json:"resourceType"`
	URL          string              `json:"url,omitempty"`
	Version      string              `json:"version,omitempty"`
	Name         string              `json:"name,omitempty"`
	Title        string              `json:"title,omitempty"`
	Status       string              `json:"status,omitempty"`
	Item         []QuestionnaireItem `json:"item,omitempty"`
}

// ResponseAnswer is a single answer value. Exactly one of the value fields
// is set.
type ResponseAnswer struct {
	ValueString string  `json:"valueString,omitempty"`
	ValueCoding *Coding `json:"valueCoding,omitempty"`
}

// ResponseItem groups the answers for one linkId.
type ResponseItem struct {
	LinkID string           `json:"linkId"`
	Answer []ResponseAnswer `json:"answer,omitempty"`
}

// QuestionnaireResponse is one synthetic response record.
type QuestionnaireResponse struct {
	ResourceType  string         `json:"resourceType"`
	ID            string         `json:"id,omitempty"`
	Status        string         `json:"status"`
	Questionnaire string         `json:"questionnaire,omitempty"`
	Subject       *Reference     `json:"subject,omitempty"`
	Encounter     *Reference     `json:"encounter,omitempty"`
	Author        *Reference     `json:"author,omitempty"`
	Source        *Reference     `json:"source,omitempty"`
	Authored      string         `json:"authored,omitempty"`
	Text          *Narrative     `json:"text,omitempty"`
	Item          []ResponseItem `json:"item"`
}

// BundleRequest is the per-entry delivery directive.
type BundleRequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// BundleEntry wraps one resource with its correlation id and directive.
type BundleEntry struct {
	FullURL  string         `json:"fullUrl,omitempty"`
	Resource interface{}    `json:"resource"`
	Request  *BundleRequest `json:"request,omitempty"`
}

// Bundle is one independently deliverable group of entries.
//
// Type "batch" means entries are processed independently: a failed entry
// never rolls back its siblings.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type"`
	Entry        []BundleEntry `json:"entry"`
}
