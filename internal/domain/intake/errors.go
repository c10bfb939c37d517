package intake

import "errors"

var (
	// ErrUnsupportedFormat is returned for files other than PDF, DOCX,
	// JPG, JPEG and PNG.
	ErrUnsupportedFormat = errors.New("unsupported file format, only PDF, DOCX, JPG and PNG allowed")

	// ErrNoExtractableText is returned when a document yields no text.
	ErrNoExtractableText = errors.New("no text extracted from the file")

	// ErrClassifierUnavailable is returned when the language model cannot
	// be reached or fails.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrInvalidClassification is returned when the model output cannot
	// be parsed into a usable result.
	ErrInvalidClassification = errors.New("invalid document, please upload a proper clinical note")

	// ErrNotApplicable is returned when the document is not a mental
	// health clinical note.
	ErrNotApplicable = errors.New("the document is not related to mental health or is invalid")
)
