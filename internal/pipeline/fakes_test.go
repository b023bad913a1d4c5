package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/internal/samples"
	"github.com/josephgoksu/officekit/internal/spec"
)

// scriptedModel answers every Generate call with a fixed reply.
type scriptedModel struct {
	reply string
	err   error

	mu       sync.Mutex
	requests [][]*schema.Message
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.requests = append(m.requests, input)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func (m *scriptedModel) lastUserPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	msgs := m.requests[len(m.requests)-1]
	return msgs[len(msgs)-1].Content
}

func (m *scriptedModel) lastSystemPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1][0].Content
}

// fakeModels maps roles to scripted models and records which roles were asked for.
type fakeModels struct {
	byRole map[llm.Role]*scriptedModel
	roles  []llm.Role
}

func newFakeModels(breakdown, codegen, advanced string) *fakeModels {
	return &fakeModels{byRole: map[llm.Role]*scriptedModel{
		llm.RoleBreakdown:       {reply: breakdown},
		llm.RoleCodegen:         {reply: codegen},
		llm.RoleCodegenAdvanced: {reply: advanced},
	}}
}

func (f *fakeModels) ChatModel(ctx context.Context, role llm.Role) (model.BaseChatModel, string, error) {
	f.roles = append(f.roles, role)
	m, ok := f.byRole[role]
	if !ok {
		return nil, "", errors.New("no model for role " + string(role))
	}
	return m, "fake-" + string(role), nil
}

type fakeSamples struct {
	matches []samples.Match
	err     error
	queries []samples.Query
}

func (f *fakeSamples) Relevant(ctx context.Context, q samples.Query) ([]samples.Match, error) {
	f.queries = append(f.queries, q)
	return f.matches, f.err
}

type recordedTurn struct {
	specID string
	status string
}

type fakeRecorder struct {
	turns []recordedTurn
	err   error
}

func (r *fakeRecorder) Record(ctx context.Context, s *spec.Spec, status string) error {
	r.turns = append(r.turns, recordedTurn{specID: s.ID, status: status})
	return r.err
}

type trackedEvent struct {
	name  string
	props map[string]any
}

type fakeTracker struct {
	events []trackedEvent
}

func (t *fakeTracker) Track(event string, props map[string]any) {
	t.events = append(t.events, trackedEvent{name: event, props: props})
}

type stageEvent struct {
	stage    Stage
	finished bool
	err      error
}

type fakeReporter struct {
	events []stageEvent
}

func (r *fakeReporter) StageStarted(stage Stage) {
	r.events = append(r.events, stageEvent{stage: stage})
}

func (r *fakeReporter) StageFinished(stage Stage, err error) {
	r.events = append(r.events, stageEvent{stage: stage, finished: true, err: err})
}
