package queue

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidMessage = errors.New("invalid queue message")

// FilterJobMsg asks a worker to run one filter job. Criteria and model are
// read from the job row, so a redelivered message always sees current state.
type FilterJobMsg struct {
	Message string `json:"message,omitempty"`
	JobID   int64  `json:"job_id"`
	ModelID int64  `json:"model_id"`
}

func (m FilterJobMsg) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func DecodeFilterJobMsg(body []byte) (FilterJobMsg, error) {
	var m FilterJobMsg
	if err := json.Unmarshal(body, &m); err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if m.JobID <= 0 {
		return m, fmt.Errorf("%w: missing job_id", ErrInvalidMessage)
	}
	return m, nil
}

// JobEvent is published on EventExchange when a job changes status.
type JobEvent struct {
	JobID   int64  `json:"job_id"`
	ModelID int64  `json:"model_id"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func (e JobEvent) Topic() string {
	return "filter.job." + e.Status
}
