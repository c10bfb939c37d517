package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder persists an accepted classification onto the patient record.
// Satisfied by the coverage service.
type Recorder interface {
	ApplyClassification(ctx context.Context, patientID uuid.UUID, disease, riskLevel string) error
}

type Service struct {
	extractor  *Extractor
	classifier Classifier
	recorder   Recorder
	logger     zerolog.Logger
}

func NewService(extractor *Extractor, classifier Classifier, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		extractor:  extractor,
		classifier: classifier,
		recorder:   recorder,
		logger:     logger,
	}
}

// Analyze runs the document pipeline for a patient: extract text, classify
// it, parse the result and record the diagnosis. A classifier failure is
// treated the same as a not-applicable document.
func (s *Service) Analyze(ctx context.Context, patientID uuid.UUID, filename string, data []byte) (*Classification, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	text, err := s.extractor.Extract(data, format)
	if err != nil {
		return nil, err
	}

	output, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("patient_id", patientID.String()).
			Msg("classification failed, treating document as not applicable")
		if errors.Is(err, ErrClassifierUnavailable) {
			return nil, ErrNotApplicable
		}
		return nil, err
	}

	result, err := ParseClassification(output)
	if err != nil {
		return nil, err
	}

	if err := s.recorder.ApplyClassification(ctx, patientID, result.DiseaseName, result.RiskLevel); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("patient_id", patientID.String()).
		Str("disease", result.DiseaseName).
		Str("risk_level", result.RiskLevel).
		Msg("clinical document classified")
	return result, nil
}
