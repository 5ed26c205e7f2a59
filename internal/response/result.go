package response

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Status classifies a successful result for the transport layer.
type Status string

const (
	StatusOK      Status = "ok"
	StatusCreated Status = "created"
)

// Result is what every core operation returns on success.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(message string, data any) *Result {
	return &Result{Status: StatusOK, Message: message, Data: data}
}

func Created(message string, data any) *Result {
	return &Result{Status: StatusCreated, Message: message, Data: data}
}

// Struct renders the result as a protobuf Struct via its JSON form.
func (r *Result) Struct() (*structpb.Struct, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return st, nil
}
