package models

// Operation is a single path+method pair extracted from a specification
// document, with enough context to address it over HTTP.
type Operation struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
	Tags        []string
	ServerURL   string
	FullPath    string // ServerURL + Path with parameters substituted
}
