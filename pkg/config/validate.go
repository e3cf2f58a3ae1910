package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError lists every invalid field.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Issues, "; ")
}

// MissingError reports required configuration that is absent, with a remediation hint.
type MissingError struct {
	Field  string
	EnvVar string
	Hint   string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s not found. Please set it in environment variables (%s)", e.EnvVar, e.Field)
}

// Validate checks field formats and enums.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	issues := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return &ValidationError{Issues: issues}
}

type requirement struct {
	field  string
	envVar string
	value  string
	rule   string
	hint   string
}

func check(reqs ...requirement) error {
	for _, r := range reqs {
		if err := validate.Var(r.value, r.rule); err != nil {
			return &MissingError{Field: r.field, EnvVar: r.envVar, Hint: r.hint}
		}
	}
	return nil
}

// RequireAgent ensures an agent endpoint can be reached.
func RequireAgent(cfg Config) error {
	if cfg.Agent.UsesOpenAI() {
		return nil
	}
	return check(requirement{
		field:  "agent.endpoint",
		envVar: "AZURE_OPENAI_ENDPOINT",
		value:  cfg.Agent.Endpoint,
		rule:   "required,url",
		hint:   "Format: https://<your-resource>.openai.azure.com/",
	})
}

// RequireEvaluation ensures a cloud evaluation can be submitted.
func RequireEvaluation(cfg Config) error {
	return check(
		requirement{
			field:  "evaluation.projectEndpoint",
			envVar: "PROJECT_ENDPOINT",
			value:  cfg.Evaluation.ProjectEndpoint,
			rule:   "required,url",
			hint:   "Format: https://<account>.services.ai.azure.com/api/projects/<project>",
		},
		requirement{
			field:  "evaluation.modelEndpoint",
			envVar: "MODEL_ENDPOINT",
			value:  cfg.EffectiveModelEndpoint(),
			rule:   "required,url",
			hint:   "Format: https://<account>.services.ai.azure.com",
		},
		requirement{
			field:  "evaluation.modelAPIKey",
			envVar: "AZURE_OPENAI_API_KEY",
			value:  cfg.Evaluation.ModelAPIKey,
			rule:   "required",
			hint:   "This is required for cloud evaluation evaluators.",
		},
	)
}
