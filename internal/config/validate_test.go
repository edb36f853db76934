package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func issuePaths(issues []ValidationIssue) []string {
	paths := make([]string, 0, len(issues))
	for _, i := range issues {
		paths = append(paths, i.Path)
	}
	return paths
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidateGateway(t *testing.T) {
	cfg := Defaults()
	cfg.Gateway.Port = 70000
	cfg.Gateway.Bind = "tailnet"
	cfg.Gateway.ChatPath = "chat"

	paths := issuePaths(Validate(&cfg))
	assert.ElementsMatch(t, []string{"gateway.port", "gateway.bind", "gateway.chatPath"}, paths)
}

func TestValidateModel(t *testing.T) {
	temp, topP, budget := 3.0, 1.5, -2
	cfg := Defaults()
	cfg.Model.Temperature = &temp
	cfg.Model.TopP = &topP
	cfg.Model.ThinkingBudget = &budget
	cfg.Model.Tools = []string{"urlContext", "codeExecution"}

	paths := issuePaths(Validate(&cfg))
	assert.ElementsMatch(t, []string{"model.temperature", "model.topP", "model.thinkingBudget", "model.tools[1]"}, paths)
}

func TestValidateLogging(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "verbose"
	cfg.Logging.ConsoleStyle = "compact"

	paths := issuePaths(Validate(&cfg))
	assert.ElementsMatch(t, []string{"logging.level", "logging.consoleStyle"}, paths)
}

func TestValidateHooks(t *testing.T) {
	cfg := Defaults()
	cfg.Hooks.SessionStart = []HookEntry{{Command: " "}, {Command: "true", Timeout: -1}}

	paths := issuePaths(Validate(&cfg))
	assert.ElementsMatch(t, []string{"hooks.sessionStart[0].command", "hooks.sessionStart[1].timeout"}, paths)
}

func TestValidationIssueString(t *testing.T) {
	i := ValidationIssue{Path: "gateway.port", Message: "bad"}
	assert.Equal(t, "gateway.port: bad", i.String())
}
