package risk

import "sync"

// Encoder maps categorical values to stable numeric codes. Unseen values
// are appended rather than rejected, so a new gender or emotional state
// never fails an estimate. Codes are append-only: once assigned, a value
// keeps its code for the life of the process.
type Encoder struct {
	mu      sync.Mutex
	classes []string
	index   map[string]int
}

func NewEncoder(seed ...string) *Encoder {
	e := &Encoder{index: make(map[string]int, len(seed))}
	for _, v := range seed {
		if _, ok := e.index[v]; !ok {
			e.index[v] = len(e.classes)
			e.classes = append(e.classes, v)
		}
	}
	return e
}

// Transform returns the numeric code for value, assigning a new one if the
// value has not been seen before.
func (e *Encoder) Transform(value string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if code, ok := e.index[value]; ok {
		return float64(code)
	}
	code := len(e.classes)
	e.index[value] = code
	e.classes = append(e.classes, value)
	return float64(code)
}

// Classes returns a snapshot of the known values in code order.
func (e *Encoder) Classes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
