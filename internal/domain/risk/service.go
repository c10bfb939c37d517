package risk

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRiskEstimationFailed wraps model prediction failures.
var ErrRiskEstimationFailed = errors.New("risk estimation failed")

// ErrInvalidInput is returned for out-of-range assessment answers.
var ErrInvalidInput = errors.New("invalid assessment input")

// Recorder persists a predicted risk level onto the patient record.
// Satisfied by the coverage service.
type Recorder interface {
	ApplyRiskLevel(ctx context.Context, patientID uuid.UUID, label string) error
}

// Input carries one self-assessment. Score answers run 1 to 10.
type Input struct {
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	MoodScore      int    `json:"mood_score"`
	SleepQuality   int    `json:"sleep_quality"`
	StressLevel    int    `json:"stress_level"`
	EmotionalState string `json:"emotional_state"`
}

func (in Input) validate() error {
	if in.Age < 0 || in.Age > 150 {
		return fmt.Errorf("%w: age out of range", ErrInvalidInput)
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"mood_score", in.MoodScore},
		{"sleep_quality", in.SleepQuality},
		{"stress_level", in.StressLevel},
	} {
		if f.value < 1 || f.value > 10 {
			return fmt.Errorf("%w: %s must be between 1 and 10", ErrInvalidInput, f.name)
		}
	}
	return nil
}

type Estimator struct {
	gender   *Encoder
	emotion  *Encoder
	model    Model
	recorder Recorder
	logger   zerolog.Logger
}

func NewEstimator(model Model, recorder Recorder, logger zerolog.Logger) *Estimator {
	return &Estimator{
		gender:   NewEncoder("Male", "Female"),
		emotion:  NewEncoder("Happy", "Neutral", "Sad", "Anxious", "Depressed"),
		model:    model,
		recorder: recorder,
		logger:   logger,
	}
}

// Estimate predicts a risk level from a self-assessment and stores it on
// the patient record.
func (e *Estimator) Estimate(ctx context.Context, patientID uuid.UUID, in Input) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}

	features := []float64{
		float64(in.Age),
		e.gender.Transform(in.Gender),
		float64(in.MoodScore),
		float64(in.SleepQuality),
		float64(in.StressLevel),
		e.emotion.Transform(in.EmotionalState),
	}

	label, err := e.model.Predict(features)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRiskEstimationFailed, err)
	}

	if err := e.recorder.ApplyRiskLevel(ctx, patientID, label); err != nil {
		return "", err
	}

	e.logger.Info().
		Str("patient_id", patientID.String()).
		Str("risk_level", label).
		Msg("risk level predicted")
	return label, nil
}
