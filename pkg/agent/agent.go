// Package agent runs the cooking assistant against an OpenAI compatible chat endpoint,
// executing tool calls locally.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/tools"
)

const (
	tracerName               = "github.com/tb0hdan/agent-eval/pkg/agent"
	DefaultMaxToolIterations = 5
)

// ErrToolLoopLimit is returned when the model keeps requesting tools past the limit.
var ErrToolLoopLimit = errors.New("tool call limit reached without a final answer")

// ChatCompleter is the part of the go-openai client the agent uses.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	Model             string
	Name              string
	Instructions      string
	MaxToolIterations int
	Logger            zerolog.Logger
	Tracer            trace.Tracer
}

type Agent struct {
	client    ChatCompleter
	cfg       Config
	functions map[string]tools.Function
	defs      []openai.Tool
	names     []string
	logger    zerolog.Logger
	tracer    trace.Tracer
}

func New(client ChatCompleter, cfg Config, functions ...tools.Function) *Agent {
	if cfg.MaxToolIterations <= 0 {
		cfg.MaxToolIterations = DefaultMaxToolIterations
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	a := &Agent{
		client:    client,
		cfg:       cfg,
		functions: make(map[string]tools.Function, len(functions)),
		logger:    cfg.Logger.With().Str("component", "agent").Str("agent", cfg.Name).Logger(),
		tracer:    tracer,
	}
	for _, fn := range functions {
		a.functions[fn.Name()] = fn
		a.names = append(a.names, fn.Name())
		a.defs = append(a.defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        fn.Name(),
				Description: fn.Description(),
				Parameters:  fn.Schema(),
			},
		})
	}
	return a
}

// ToolNames lists the functions offered to the model, in registration order.
func (a *Agent) ToolNames() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Run answers prompt in a new thread, so nothing is shared with earlier calls.
func (a *Agent) Run(ctx context.Context, prompt string) (*models.ConversationTurn, error) {
	return a.NewThread().Send(ctx, prompt)
}

// Thread is a conversation that keeps its history between turns. It is safe for
// concurrent use, turns are serialized.
type Thread struct {
	agent    *Agent
	mu       sync.Mutex
	messages []openai.ChatCompletionMessage
}

func (a *Agent) NewThread() *Thread {
	return &Thread{agent: a}
}

// Send runs one turn. On error the thread is left as it was before the call.
func (t *Thread) Send(ctx context.Context, prompt string) (*models.ConversationTurn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a := t.agent
	ctx, span := a.tracer.Start(ctx, "agent.turn", trace.WithAttributes(
		attribute.String("agent.name", a.cfg.Name),
		attribute.String("agent.model", a.cfg.Model),
	))
	defer span.End()

	rollback := len(t.messages)
	t.messages = append(t.messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})
	turnStart := len(t.messages)

	for i := 0; i < a.cfg.MaxToolIterations; i++ {
		resp, err := a.client.CreateChatCompletion(ctx, a.request(t.messages))
		if err != nil {
			t.messages = t.messages[:rollback]
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			t.messages = t.messages[:rollback]
			span.SetStatus(codes.Error, "no choices")
			return nil, errors.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if msg.Role == "" {
			msg.Role = openai.ChatMessageRoleAssistant
		}
		t.messages = append(t.messages, msg)

		if len(msg.ToolCalls) == 0 {
			span.SetAttributes(attribute.Int("agent.iterations", i+1))
			return toTurn(msg.Content, t.messages[turnStart:]), nil
		}

		a.logger.Debug().Int("tool_calls", len(msg.ToolCalls)).Msg("executing tool calls")
		for _, call := range msg.ToolCalls {
			t.messages = append(t.messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    a.invoke(ctx, call),
				ToolCallID: call.ID,
				Name:       call.Function.Name,
			})
		}
	}

	t.messages = t.messages[:rollback]
	span.SetStatus(codes.Error, ErrToolLoopLimit.Error())
	return nil, fmt.Errorf("%w (%d iterations)", ErrToolLoopLimit, a.cfg.MaxToolIterations)
}

func (a *Agent) request(history []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if a.cfg.Instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: a.cfg.Instructions,
		})
	}
	messages = append(messages, history...)

	return openai.ChatCompletionRequest{
		Model:    a.cfg.Model,
		Messages: messages,
		Tools:    a.defs,
	}
}

// invoke runs one tool call. Failures are reported to the model as text.
func (a *Agent) invoke(ctx context.Context, call openai.ToolCall) string {
	ctx, span := a.tracer.Start(ctx, "agent.tool", trace.WithAttributes(
		attribute.String("tool.name", call.Function.Name),
		attribute.String("tool.call_id", call.ID),
	))
	defer span.End()

	fn, ok := a.functions[call.Function.Name]
	if !ok {
		span.SetStatus(codes.Error, "unknown tool")
		a.logger.Warn().Str("tool", call.Function.Name).Msg("model requested unknown tool")
		return fmt.Sprintf("Error: unknown tool: %s", call.Function.Name)
	}

	output, err := fn.Call(ctx, call.Function.Arguments)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Warn().Err(err).Str("tool", call.Function.Name).Msg("tool call failed")
		return "Error: " + err.Error()
	}
	return output
}

// toTurn maps the messages produced during a turn into the content item union.
func toTurn(text string, produced []openai.ChatCompletionMessage) *models.ConversationTurn {
	turn := &models.ConversationTurn{
		Text:     text,
		Messages: make([]models.Message, 0, len(produced)),
	}
	for _, msg := range produced {
		out := models.Message{Role: msg.Role}
		switch msg.Role {
		case openai.ChatMessageRoleTool:
			// Tool results carry no human readable text of their own.
			out.Contents = []models.ContentItem{{Kind: models.ContentUnknown, CallID: msg.ToolCallID, Name: msg.Name}}
		default:
			out.Text = msg.Content
			for _, call := range msg.ToolCalls {
				out.Contents = append(out.Contents, models.ToolCallItem(call.ID, call.Function.Name, call.Function.Arguments))
			}
			if msg.Content != "" {
				out.Contents = append(out.Contents, models.TextItem(msg.Content))
			}
		}
		turn.Messages = append(turn.Messages, out)
	}
	return turn
}
