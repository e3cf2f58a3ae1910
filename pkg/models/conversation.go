package models

// Role is the author of a message within a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
	RoleUnknown   Role = "unknown"
)

// ParseRole maps a raw role string to a Role. Anything unrecognized is RoleUnknown.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleUser, RoleAssistant, RoleTool, RoleSystem:
		return Role(raw)
	default:
		return RoleUnknown
	}
}

// ContentKind discriminates the ContentItem union.
type ContentKind string

const (
	ContentText     ContentKind = "text"
	ContentToolCall ContentKind = "tool_call"
	ContentUnknown  ContentKind = "unknown"
)

// ContentItem is one piece of a message as reported by the agent endpoint.
// Text is set for ContentText; CallID, Name and Arguments for ContentToolCall.
// Arguments is passed through untouched: a serialized string, a decoded map, or nil.
type ContentItem struct {
	Kind      ContentKind
	Text      string
	CallID    string
	Name      string
	Arguments any
}

// Message is a single upstream message. Role is the raw role string as received.
type Message struct {
	Role     string
	Text     string
	Contents []ContentItem
}

// ConversationTurn is the result of one round trip to the agent endpoint.
type ConversationTurn struct {
	Text     string
	Messages []Message
}

// TextItem builds a text content item.
func TextItem(text string) ContentItem {
	return ContentItem{Kind: ContentText, Text: text}
}

// ToolCallItem builds a tool call content item.
func ToolCallItem(callID, name string, arguments any) ContentItem {
	return ContentItem{Kind: ContentToolCall, CallID: callID, Name: name, Arguments: arguments}
}
