package risk

import "fmt"

// Risk labels produced by a Model.
const (
	LevelLow      = "Low"
	LevelModerate = "Moderate"
	LevelHigh     = "High"
)

// Feature vector layout handed to a Model.
const (
	featAge = iota
	featGender
	featMood
	featSleep
	featStress
	featEmotion
	featureCount
)

// Model predicts a risk label from an encoded feature vector.
type Model interface {
	Predict(features []float64) (string, error)
}

// ThresholdModel is a simple scoring model. Low mood, poor sleep and high
// stress each push the score up; the score buckets into the three levels.
type ThresholdModel struct {
	moderateAt float64
	highAt     float64
}

func NewThresholdModel() *ThresholdModel {
	return &ThresholdModel{moderateAt: 10, highAt: 17}
}

func (m *ThresholdModel) Predict(features []float64) (string, error) {
	if len(features) != featureCount {
		return "", fmt.Errorf("expected %d features, got %d", featureCount, len(features))
	}

	mood := features[featMood]
	sleep := features[featSleep]
	stress := features[featStress]

	score := (10 - mood) + (10 - sleep) + stress
	if features[featAge] >= 60 {
		score += 2
	}

	switch {
	case score >= m.highAt:
		return LevelHigh, nil
	case score >= m.moderateAt:
		return LevelModerate, nil
	default:
		return LevelLow, nil
	}
}
