package models

import (
	"time"

	"gorm.io/gorm"
)

// Execution sources.
const (
	SourceMCP   = "mcp"
	SourceAgent = "agent"
)

// ToolExecution records one invocation of a recipe tool, either by an MCP client or by the
// agent during a run. SessionID holds the MCP session id or the evaluation run id.
type ToolExecution struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	SessionID    string         `gorm:"type:varchar(64);index" json:"session_id,omitempty"`
	Source       string         `gorm:"type:varchar(16);index" json:"source"`
	ToolName     string         `gorm:"type:varchar(255);index;not null" json:"tool_name"`
	InputJSON    string         `gorm:"type:text" json:"input_json"`
	OutputText   string         `gorm:"type:text" json:"output_text,omitempty"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs   int64          `json:"duration_ms"`
	Success      bool           `gorm:"index" json:"success"`
}
