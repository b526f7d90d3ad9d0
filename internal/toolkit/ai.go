package toolkit

import (
	"context"
	"fmt"

	"github.com/alfakih7/nova-cli-agent/internal/llm"
	"github.com/alfakih7/nova-cli-agent/internal/prompt"
)

// AnalyzeCode asks the gateway for a review of the code.
func (t *Toolkit) AnalyzeCode(ctx context.Context, code, filename string) Result {
	if code == "" {
		return t.record("analyze", Fail("no code to analyze"))
	}

	userPrompt := fmt.Sprintf("Analyze this code from %s for bugs, style issues, and improvements:\n\n```\n%s\n```", filename, code)
	text, err := t.complete(ctx, RouteDefault, prompt.System(prompt.SystemGeneralAssistant), userPrompt)
	if err != nil {
		return t.record("analyze", Fail("analysis failed: %v", err))
	}
	return t.record("analyze", OK(text, "analysis complete"))
}

// GenerateCode produces code for a description, extracting the first fenced
// block from the completion.
func (t *Toolkit) GenerateCode(ctx context.Context, description, language string) Result {
	if description == "" {
		return t.record("generate", Fail("no description provided"))
	}
	if language == "" {
		language = "Go"
	}

	userPrompt := prompt.Task(prompt.TaskCodeGeneration, map[string]string{
		"language":    language,
		"description": description,
	})
	text, err := t.complete(ctx, RouteCoder, prompt.System(prompt.SystemCodeGenerator), userPrompt)
	if err != nil {
		return t.record("generate", Fail("code generation failed: %v", err))
	}

	return t.record("generate", OK(ExtractCodeBlock(text, language), "code generated"))
}

// FixOutcome carries both the extracted replacement code and the gateway's
// full explanation.
type FixOutcome struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// FixCode asks the gateway to repair code, optionally guided by captured
// error output. The instruction selects the fix flavor (general, refactor,
// security, performance) from the prompt catalog.
func (t *Toolkit) FixCode(ctx context.Context, code, errorInfo, filename, instruction string) Result {
	if code == "" {
		return t.record("fix", Fail("no code to fix"))
	}
	if instruction == "" {
		instruction = prompt.Fix(prompt.FixGeneral)
	}

	userPrompt := fmt.Sprintf("%s\n\nFile: %s\n\n```\n%s\n```", instruction, filename, code)
	if errorInfo != "" {
		userPrompt += fmt.Sprintf("\n\nThe code fails with:\n%s", errorInfo)
	}
	userPrompt += "\n\nProvide the complete corrected file in a fenced code block, followed by a short explanation of each change."

	text, err := t.complete(ctx, RouteCoder, prompt.System(prompt.SystemGeneralAssistant), userPrompt)
	if err != nil {
		return t.record("fix", Fail("fix generation failed: %v", err))
	}

	return t.record("fix", OK(FixOutcome{
		Code:        ExtractCodeBlock(text, ""),
		Explanation: text,
	}, "fix generated"))
}

// RefactorCode asks for refactoring suggestions.
func (t *Toolkit) RefactorCode(ctx context.Context, code, filename string) Result {
	return t.review(ctx, "refactor", code, filename,
		"Suggest refactorings to improve the structure and readability of this code. For each suggestion explain the benefit.")
}

// SecurityAudit asks for a vulnerability review.
func (t *Toolkit) SecurityAudit(ctx context.Context, code, filename string) Result {
	return t.review(ctx, "security", code, filename,
		"Audit this code for security vulnerabilities. For each finding describe the attack scenario, its severity, and the remediation.")
}

// OptimizeCode asks for performance improvements.
func (t *Toolkit) OptimizeCode(ctx context.Context, code, filename string) Result {
	return t.review(ctx, "optimize", code, filename,
		"Identify performance optimization opportunities in this code. Explain the expected impact of each.")
}

func (t *Toolkit) review(ctx context.Context, tool, code, filename, lead string) Result {
	if code == "" {
		return t.record(tool, Fail("no code to review"))
	}

	userPrompt := fmt.Sprintf("%s\n\nFile: %s\n\n```\n%s\n```", lead, filename, code)
	text, err := t.complete(ctx, RouteDefault, prompt.System(prompt.SystemGeneralAssistant), userPrompt)
	if err != nil {
		return t.record(tool, Fail("%s review failed: %v", tool, err))
	}
	return t.record(tool, OK(text, tool+" review complete"))
}

// PredictBugs asks the bug-predictor role for latent failure points.
func (t *Toolkit) PredictBugs(ctx context.Context, code string) Result {
	if code == "" {
		return t.record("predict_bugs", Fail("no code to analyze"))
	}

	userPrompt := prompt.Task(prompt.TaskBugPrediction, map[string]string{"code": code})
	text, err := t.complete(ctx, RouteDefault, prompt.System(prompt.SystemBugPredictor), userPrompt)
	if err != nil {
		return t.record("predict_bugs", Fail("bug prediction failed: %v", err))
	}
	return t.record("predict_bugs", OK(text, "bug prediction complete"))
}

// ExplainConcept asks the educator role for a structured explanation.
func (t *Toolkit) ExplainConcept(ctx context.Context, topic string) Result {
	if topic == "" {
		return t.record("explain", Fail("no topic provided"))
	}

	userPrompt := prompt.Task(prompt.TaskConceptExplanation, map[string]string{"topic": topic})
	text, err := t.complete(ctx, RouteDefault, prompt.System(prompt.SystemConceptExplainer), userPrompt)
	if err != nil {
		return t.record("explain", Fail("explanation failed: %v", err))
	}
	return t.record("explain", OK(text, "explanation ready"))
}

// ChatCompletion answers a free-form question with recent conversation
// turns and optional code context.
func (t *Toolkit) ChatCompletion(ctx context.Context, question, codeContext string, history []llm.ChatMessage) Result {
	if question == "" {
		return t.record("chat", Fail("empty question"))
	}

	userPrompt := question
	if codeContext != "" {
		userPrompt = prompt.Task(prompt.TaskChatCompletion, map[string]string{
			"code_context": codeContext,
			"question":     question,
		})
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: prompt.System(prompt.SystemChatAssistant)})
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: userPrompt})

	text, err := t.completeHistory(ctx, RouteDefault, messages)
	if err != nil {
		return t.record("chat", Fail("chat failed: %v", err))
	}
	return t.record("chat", OK(text, ""))
}

// ModifyFileContent asks the gateway for a full-file rewrite per a free-text
// description and returns the new content.
func (t *Toolkit) ModifyFileContent(ctx context.Context, current, description string) (string, error) {
	userPrompt := prompt.Task(prompt.TaskFileModification, map[string]string{
		"description":     description,
		"current_content": current,
	})
	text, err := t.complete(ctx, RouteCoder, prompt.System(prompt.SystemCodeGenerator), userPrompt)
	if err != nil {
		return "", err
	}
	return ExtractCodeBlock(text, ""), nil
}
