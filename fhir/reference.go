package fhir

import "strings"

// RelativeRef returns a relative literal reference for the given resource
// type and identifier.
//
//	"123"          -> "Patient/123"
//	"Patient/123"  -> "Patient/123"
//	"urn:uuid:..." -> unchanged
//	"http://..."   -> unchanged
//	""             -> ""
func RelativeRef(resourceType, identifier string) string {
	s := strings.TrimSpace(identifier)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "/") || strings.HasPrefix(s, "urn:uuid:") || strings.HasPrefix(s, "http") {
		return s
	}
	return resourceType + "/" + s
}
