package types

// Attachment is a file reference carried in an attachment-list static field.
// Only GUID and Name travel outbound; URL, Error and Success come back from
// the service.
type Attachment struct {
	GUID    string `json:"guid" yaml:"guid"`
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Success bool   `json:"success,omitempty" yaml:"success,omitempty"`
}
