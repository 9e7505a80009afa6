package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks a payload that no retry can fix.
var ErrMalformed = errors.New("malformed task")

const (
	TypeIngest  = "ingest"
	TypeCleanup = "cleanup"
)

// Task is a unit of media work carried on the stream.
type Task struct {
	Type    string `json:"type"`
	ImageID string `json:"imageId,omitempty"`
}

func Ingest(imageID string) Task {
	return Task{Type: TypeIngest, ImageID: imageID}
}

func Cleanup() Task {
	return Task{Type: TypeCleanup}
}

// Values flattens the task into stream fields.
func (t Task) Values() map[string]any {
	values := map[string]any{"type": t.Type}
	if t.ImageID != "" {
		values["imageId"] = t.ImageID
	}
	return values
}

func Decode(values map[string]interface{}) (Task, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if task.Type == "" {
		return Task{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return task, nil
}
