package risk

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	mu        sync.Mutex
	patientID uuid.UUID
	label     string
	calls     int
}

func (r *fakeRecorder) ApplyRiskLevel(_ context.Context, patientID uuid.UUID, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.patientID = patientID
	r.label = label
	return nil
}

func TestEncoderAssignsStableCodes(t *testing.T) {
	e := NewEncoder("Male", "Female")

	assert.Equal(t, 0.0, e.Transform("Male"))
	assert.Equal(t, 1.0, e.Transform("Female"))
	assert.Equal(t, 0.0, e.Transform("Male"), "codes must be stable")
}

func TestEncoderAppendsUnseenValues(t *testing.T) {
	e := NewEncoder("Happy", "Sad")

	code := e.Transform("Overwhelmed")
	assert.Equal(t, 2.0, code)
	assert.Equal(t, code, e.Transform("Overwhelmed"))
	assert.Equal(t, []string{"Happy", "Sad", "Overwhelmed"}, e.Classes())
}

func TestEncoderConcurrentTransform(t *testing.T) {
	e := NewEncoder()
	var wg sync.WaitGroup
	values := []string{"a", "b", "c", "d"}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e.Transform(values[i%len(values)])
		}(i)
	}
	wg.Wait()
	assert.Len(t, e.Classes(), len(values))
}

func TestThresholdModel(t *testing.T) {
	m := NewThresholdModel()

	// content, rested, calm
	label, err := m.Predict([]float64{30, 0, 9, 9, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, LevelLow, label)

	// middling scores
	label, err = m.Predict([]float64{30, 0, 5, 5, 4, 0})
	require.NoError(t, err)
	assert.Equal(t, LevelModerate, label)

	// low mood, poor sleep, high stress
	label, err = m.Predict([]float64{30, 0, 2, 3, 8, 0})
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, label)
}

func TestThresholdModelWrongFeatureCount(t *testing.T) {
	m := NewThresholdModel()
	_, err := m.Predict([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestEstimateStoresResult(t *testing.T) {
	recorder := &fakeRecorder{}
	est := NewEstimator(NewThresholdModel(), recorder, zerolog.Nop())

	patientID := uuid.New()
	label, err := est.Estimate(context.Background(), patientID, Input{
		Age: 28, Gender: "Female", MoodScore: 2, SleepQuality: 3,
		StressLevel: 9, EmotionalState: "Depressed",
	})
	require.NoError(t, err)
	assert.Equal(t, LevelHigh, label)
	assert.Equal(t, 1, recorder.calls)
	assert.Equal(t, patientID, recorder.patientID)
	assert.Equal(t, label, recorder.label)
}

func TestEstimateDeterministic(t *testing.T) {
	est := NewEstimator(NewThresholdModel(), &fakeRecorder{}, zerolog.Nop())

	in := Input{Age: 40, Gender: "Male", MoodScore: 5, SleepQuality: 6, StressLevel: 5, EmotionalState: "Neutral"}
	first, err := est.Estimate(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		label, err := est.Estimate(context.Background(), uuid.New(), in)
		require.NoError(t, err)
		assert.Equal(t, first, label)
	}
}

func TestEstimateUnseenCategories(t *testing.T) {
	recorder := &fakeRecorder{}
	est := NewEstimator(NewThresholdModel(), recorder, zerolog.Nop())

	_, err := est.Estimate(context.Background(), uuid.New(), Input{
		Age: 33, Gender: "Nonbinary", MoodScore: 6, SleepQuality: 7,
		StressLevel: 3, EmotionalState: "Hopeful",
	})
	require.NoError(t, err, "unseen gender and emotional state must not fail")
	assert.Equal(t, 1, recorder.calls)
}

func TestEstimateValidatesInput(t *testing.T) {
	est := NewEstimator(NewThresholdModel(), &fakeRecorder{}, zerolog.Nop())

	cases := []Input{
		{Age: -1, Gender: "Male", MoodScore: 5, SleepQuality: 5, StressLevel: 5},
		{Age: 30, Gender: "Male", MoodScore: 0, SleepQuality: 5, StressLevel: 5},
		{Age: 30, Gender: "Male", MoodScore: 5, SleepQuality: 11, StressLevel: 5},
		{Age: 30, Gender: "Male", MoodScore: 5, SleepQuality: 5, StressLevel: -2},
	}
	for _, in := range cases {
		_, err := est.Estimate(context.Background(), uuid.New(), in)
		assert.ErrorIs(t, err, ErrInvalidInput, "input: %+v", in)
	}
}
