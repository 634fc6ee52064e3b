package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/travellabs/tripbot/internal/llm"
)

// Step is one scripted completion result.
type Step struct {
	Text string
	Err  error
}

// Reply scripts a successful completion.
func Reply(text string) Step { return Step{Text: text} }

// Fail scripts a failed completion.
func Fail(err error) Step { return Step{Err: err} }

// ScriptedLLM is an llm.LLMClient that answers from per-task queues.
// When a task's queue is empty its default step is used; a task with
// neither fails the call. Safe for concurrent use.
type ScriptedLLM struct {
	mu       sync.Mutex
	queues   map[llm.TaskType][]Step
	defaults map[llm.TaskType]Step
	calls    []llm.GenerateRequest
}

func NewScriptedLLM() *ScriptedLLM {
	return &ScriptedLLM{
		queues:   make(map[llm.TaskType][]Step),
		defaults: make(map[llm.TaskType]Step),
	}
}

// On appends steps to task's queue.
func (s *ScriptedLLM) On(task llm.TaskType, steps ...Step) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[task] = append(s.queues[task], steps...)
	return s
}

// Default sets the step used once task's queue is drained.
func (s *ScriptedLLM) Default(task llm.TaskType, step Step) *ScriptedLLM {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults[task] = step
	return s
}

func (s *ScriptedLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)

	var step Step
	if q := s.queues[req.Task]; len(q) > 0 {
		step, s.queues[req.Task] = q[0], q[1:]
	} else if d, ok := s.defaults[req.Task]; ok {
		step = d
	} else {
		return nil, fmt.Errorf("%w: no scripted response for task %q", llm.ErrUnavailable, req.Task)
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &llm.GenerateResponse{Text: step.Text, Model: "scripted"}, nil
}

func (s *ScriptedLLM) Available(context.Context) bool { return true }

// Calls returns every request received for task, in order.
func (s *ScriptedLLM) Calls(task llm.TaskType) []llm.GenerateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []llm.GenerateRequest
	for _, c := range s.calls {
		if c.Task == task {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many requests were received for task.
func (s *ScriptedLLM) Count(task llm.TaskType) int {
	return len(s.Calls(task))
}

// ExtractionJSON renders an extraction reply. Keys absent from fields
// are emitted as null, the way the model is asked to answer.
func ExtractionJSON(fields map[string]any) string {
	payload := map[string]any{
		"from": nil, "to": nil, "traveling_with": nil, "when": nil,
		"duration": nil, "purpose": nil, "transportation": nil,
		"descriptions of the trip": nil,
	}
	for k, v := range fields {
		payload[k] = v
	}
	data, _ := json.Marshal(payload)
	return string(data)
}
