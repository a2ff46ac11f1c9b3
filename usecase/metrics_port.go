package usecase

// Recorder receives counters for every operation the entry points perform.
type Recorder interface {
	RecordTaskOperation(operation, outcome string)
	RecordToolCall(tool string, isError bool)
	RecordChatIntent(intent string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordTaskOperation(string, string) {}
func (NopRecorder) RecordToolCall(string, bool)        {}
func (NopRecorder) RecordChatIntent(string)            {}
