// Package normalize flattens a conversation turn into the stable record used for evaluation.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/types"
)

type Option func(*Normalizer)

// WithDebug enables a dump of the turn's message shape to the logger.
func WithDebug(debug bool) Option {
	return func(n *Normalizer) {
		n.debug = debug
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger.With().Str("component", "normalize").Logger()
	}
}

type Normalizer struct {
	debug  bool
	logger zerolog.Logger
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds the result for one query. It tolerates a nil turn and missing fields.
func (n *Normalizer) Normalize(query models.Query, turn *models.ConversationTurn) models.NormalizedResult {
	result := models.NormalizedResult{
		QueryID:             query.ID,
		Query:               query.Text,
		ConversationHistory: []models.HistoryEntry{},
		ToolCalls:           []models.ToolInvocation{},
	}
	if turn == nil {
		result.Succeeded = true
		return result
	}

	if n.debug {
		n.dump(query, turn)
	}

	result.Response = turn.Text
	for _, msg := range turn.Messages {
		role := models.ParseRole(msg.Role)

		for _, item := range msg.Contents {
			if item.Kind != models.ContentToolCall {
				continue
			}
			result.ToolCalls = append(result.ToolCalls, models.ToolInvocation{
				Type:      models.ToolCallType,
				CallID:    models.StringPtr(item.CallID),
				Name:      models.StringPtr(item.Name),
				Arguments: DecodeArguments(item.Arguments),
			})
		}

		text := messageText(msg)
		if strings.TrimSpace(text) == "" {
			continue
		}
		result.ConversationHistory = append(result.ConversationHistory, models.HistoryEntry{
			Role:    role,
			Content: text,
		})
	}

	result.Succeeded = !models.IsErrorResponse(result.Response)
	return result
}

// messageText prefers the direct text, then the first text content item.
func messageText(msg models.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	for _, item := range msg.Contents {
		if item.Kind == models.ContentText {
			return item.Text
		}
	}
	return ""
}

// DecodeArguments turns raw tool call arguments into a mapping.
// A string that is not a JSON object decodes to an empty map; nil stays nil.
func DecodeArguments(raw any) map[string]any {
	switch v := raw.(type) {
	case nil:
		return nil
	case map[string]any:
		return v
	case string:
		decoded := map[string]any{}
		if err := json.Unmarshal([]byte(v), &decoded); err != nil || decoded == nil {
			return map[string]any{}
		}
		return decoded
	case []byte:
		return DecodeArguments(string(v))
	case json.RawMessage:
		return DecodeArguments(string(v))
	default:
		return map[string]any{}
	}
}

func (n *Normalizer) dump(query models.Query, turn *models.ConversationTurn) {
	n.logger.Debug().
		Str("query_id", query.ID).
		Int("messages", len(turn.Messages)).
		Msg("message structure")

	for i, msg := range turn.Messages {
		if i >= types.DebugMessageLimit {
			break
		}
		n.logger.Debug().
			Int("index", i).
			Str("role", msg.Role).
			Str("text", preview(msg.Text, 100)).
			Int("contents", len(msg.Contents)).
			Msg("debug message")

		for j, item := range msg.Contents {
			if j >= types.DebugContentLimit {
				break
			}
			n.logger.Debug().
				Int("index", i).
				Int("content_index", j).
				Str("kind", string(item.Kind)).
				Str("tool_call_id", item.CallID).
				Str("name", item.Name).
				Str("arguments_type", argumentsType(item.Arguments)).
				Msg("debug content")
		}
	}
}

func preview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func argumentsType(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case map[string]any:
		return "object"
	default:
		return "other"
	}
}
