package persistence

import "time"

type (
	// Segment is one timestamped span of recognized text
	Segment struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	}

	// Job is the transcription job record.
	// The record is owned by one worker after dispatch, readers get copies
	Job struct {
		ID        string            `json:"id"`
		Status    string            `json:"status"`
		Progress  float64           `json:"progress"`
		AudioPath string            `json:"audioPath,omitempty"`
		Language  string            `json:"language,omitempty"`
		Model     string            `json:"model,omitempty"`
		Email     string            `json:"email,omitempty"`
		Error     string            `json:"error,omitempty"`
		Segments  []Segment         `json:"segments,omitempty"`
		Outputs   map[string]string `json:"outputs,omitempty"`
		CreatedAt time.Time         `json:"createdAt"`
	}
)

// Copy returns a deep copy of the job record
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	res := *j
	if j.Segments != nil {
		res.Segments = make([]Segment, len(j.Segments))
		copy(res.Segments, j.Segments)
	}
	if j.Outputs != nil {
		res.Outputs = make(map[string]string, len(j.Outputs))
		for k, v := range j.Outputs {
			res.Outputs[k] = v
		}
	}
	return &res
}
