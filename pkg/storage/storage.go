package storage

import (
	"context"

	"github.com/tb0hdan/agent-eval/pkg/models"
)

type Storage interface {
	// Tool execution operations
	CreateToolExecution(ctx context.Context, exec *models.ToolExecution) error
	GetToolExecution(ctx context.Context, id uint) (*models.ToolExecution, error)
	GetToolExecutions(ctx context.Context, limit, offset int) ([]models.ToolExecution, int64, error)
	GetToolExecutionsBySession(ctx context.Context, sessionID string) ([]models.ToolExecution, error)
	GetToolExecutionsByTool(ctx context.Context, toolName string, limit int) ([]models.ToolExecution, error)
	DeleteToolExecution(ctx context.Context, id uint) error
	DeleteAllToolExecutions(ctx context.Context) error

	// Evaluation run operations
	CreateRun(ctx context.Context, run *models.EvaluationRun) error
	GetRun(ctx context.Context, runID string) (*models.EvaluationRun, error)
	GetRuns(ctx context.Context, limit, offset int) ([]models.EvaluationRun, int64, error)
	DeleteRun(ctx context.Context, runID string) error

	// Lifecycle
	Close() error
}
