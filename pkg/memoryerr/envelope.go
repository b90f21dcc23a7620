package memoryerr

import "time"

// Envelope is the uniform success/failure shape returned by every tool
// operation, serialized as the JSON-RPC call-tool response body.
type Envelope struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Data      any            `json:"data,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
	ErrorType ErrorType      `json:"error_type,omitempty"`
}

// Success builds a success envelope, stamping metadata.duration_ms.
func Success(message string, data any, metadata map[string]any, start time.Time) *Envelope {
	metadata = withDuration(metadata, start)
	return &Envelope{
		Success:  true,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	}
}

// Failure builds a failure envelope from an OpError, defaulting
// error_type to UNKNOWN_ERROR and error to message when unset.
func Failure(err error, start time.Time) *Envelope {
	opErr := AsOpError(err)
	metadata := withDuration(opErr.Details, start)

	errType := opErr.Type
	if errType == "" {
		errType = UnknownError
	}
	errDetail := opErr.Error()
	if errDetail == "" {
		errDetail = opErr.Message
	}

	return &Envelope{
		Success:   false,
		Message:   opErr.Message,
		Metadata:  metadata,
		Error:     errDetail,
		ErrorType: errType,
	}
}

func withDuration(metadata map[string]any, start time.Time) map[string]any {
	if metadata == nil {
		metadata = make(map[string]any, 1)
	}
	metadata["duration_ms"] = time.Since(start).Milliseconds()
	return metadata
}
