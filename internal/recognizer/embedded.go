package recognizer

import _ "embed"

//go:embed models/general.yaml
var generalModel []byte

// DefaultGeneral returns a keyword recognizer loaded with the built-in
// general-interruption intent model. Used when no model path is configured.
func DefaultGeneral() (*KeywordRecognizer, error) {
	return ParseKeywordModel(generalModel)
}
