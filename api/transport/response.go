package transport

import "time"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// ListMeta accompanies task listings.
type ListMeta struct {
	Count  int    `json:"count"`
	Filter string `json:"filter"`
}

// DeleteResponse confirms a deletion and echoes the removed task.
type DeleteResponse struct {
	OK   bool        `json:"ok"`
	Task interface{} `json:"task"`
}

// HealthResponse reports the state of every probed dependency.
type HealthResponse struct {
	Timestamp time.Time       `json:"timestamp"`
	Services  map[string]bool `json:"services"`
	LastCheck time.Time       `json:"last_check"`
}
