package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alfakih7/nova-cli-agent/internal/analysis"
	"github.com/alfakih7/nova-cli-agent/internal/intent"
	"github.com/alfakih7/nova-cli-agent/internal/llm"
	"github.com/alfakih7/nova-cli-agent/internal/prompt"
	"github.com/alfakih7/nova-cli-agent/internal/toolkit"
)

// Execute dispatches a resolved descriptor to the toolkit operation
// matching its intent and renders the result. Both front-ends (the natural
// language loop and the direct command verbs) funnel through here.
func (d *Dispatcher) Execute(ctx context.Context, desc intent.Descriptor) {
	switch desc.Intent {
	case "analyze":
		d.doAnalyze(ctx, desc)
	case "generate":
		d.doGenerate(ctx, desc)
	case "explain":
		d.doExplain(ctx, desc)
	case "fix":
		d.doFix(ctx, desc, prompt.FixGeneral)
	case "refactor":
		d.doReview(ctx, desc, "refactor")
	case "security":
		d.doReview(ctx, desc, "security")
	case "optimize":
		d.doReview(ctx, desc, "optimize")
	case "predict_bugs":
		d.doPredictBugs(ctx, desc)
	case "run":
		d.doRun(ctx, desc)
	case "chat":
		d.doChat(ctx, desc)
	case "history":
		d.doHistory()
	case "show":
		d.doShow()
	case "read_file":
		d.doReadFile(desc)
	case "modify_file", "edit_file":
		d.doEdit(ctx, desc)
	case "list_files":
		d.doList(desc)
	case "delete_api_key":
		d.doDeleteKey()
	case "web_search":
		d.doSearch(ctx, desc)
	case "create_file":
		d.doCreate(ctx, desc)
	case "delete_file":
		d.doDelete(ctx, desc)
	case "execute_command":
		d.doExec(ctx, desc)
	case "use_tool":
		d.doUseTool(ctx, desc)
	default:
		// The resolver normalizes unrecognized values to chat, so this
		// only fires on a descriptor built by hand.
		fmt.Fprintln(d.out, d.renderer.Error(fmt.Sprintf("unknown intent %q", desc.Intent)))
	}
}

// focusFile resolves the file a code-centric intent targets: the filename
// parameter when present, else the session's focus file. The content is
// read fresh from disk and cached on the session.
func (d *Dispatcher) focusFile(desc intent.Descriptor) (string, string, bool) {
	filename := desc.Param("filename")
	if filename == "" {
		filename = d.session.CurrentFile
	}
	if filename == "" {
		fmt.Fprintln(d.out, d.renderer.Error("no file in focus; tell me which file to work on"))
		return "", "", false
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(d.out, d.renderer.Error(fmt.Sprintf("cannot read %s: %v", filename, err)))
		return "", "", false
	}
	content := string(raw)
	d.session.SetCurrentFile(filename, content)
	return filename, content, true
}

// confirmOrAgent asks in interactive mode and proceeds automatically in
// agent mode.
func (d *Dispatcher) confirmOrAgent(promptText string) bool {
	if d.session.Mode == ModeAgent {
		fmt.Fprintln(d.out, d.renderer.Notice("Agent Mode: Proceeding automatically..."))
		return true
	}
	return d.confirm(promptText)
}

// renderResult prints an envelope's message or error.
func (d *Dispatcher) renderResult(res toolkit.Result) {
	switch {
	case res.Success && res.Message != "":
		fmt.Fprintln(d.out, d.renderer.Success(res.Message))
	case !res.Success && res.Error != "":
		fmt.Fprintln(d.out, d.renderer.Error(res.Error))
	case !res.Success && res.Message != "":
		fmt.Fprintln(d.out, d.renderer.Notice(res.Message))
	}
}

func (d *Dispatcher) doAnalyze(ctx context.Context, desc intent.Descriptor) {
	filename, content, ok := d.focusFile(desc)
	if !ok {
		return
	}

	report := analysis.Analyze(filename, content)
	fmt.Fprintln(d.out, d.renderer.Panel("Static diagnostics", formatIssueReport(report)))

	metrics := analysis.ComputeMetrics(filename, content)
	fmt.Fprintln(d.out, d.renderer.Panel("Complexity metrics", formatMetrics(metrics)))

	res := d.tools.AnalyzeCode(ctx, content, filename)
	if !res.Success {
		d.renderResult(res)
		return
	}
	if text, ok := res.Data.(string); ok {
		fmt.Fprintln(d.out, d.renderer.Markdown(text))
	}
	d.session.RecordAnalyzed(filename)
}

func (d *Dispatcher) doGenerate(ctx context.Context, desc intent.Descriptor) {
	description := desc.Param("description")
	if description == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me what to generate"))
		return
	}
	language := desc.Param("language")
	filename := desc.Param("filename")

	if filename != "" {
		res := d.tools.CreateFile(ctx, filename, desc.Param("code"), description, language)
		d.renderResult(res)
		if res.Success {
			if data, ok := res.Data.(map[string]string); ok {
				d.session.SetCurrentFile(filename, data["content"])
			}
			d.session.RecordGenerated(filename)
		}
		return
	}

	res := d.tools.GenerateCode(ctx, description, language)
	if !res.Success {
		d.renderResult(res)
		return
	}
	code, _ := res.Data.(string)
	fmt.Fprintln(d.out, d.renderer.Markdown(fmt.Sprintf("```%s\n%s\n```", strings.ToLower(language), code)))
}

func (d *Dispatcher) doExplain(ctx context.Context, desc intent.Descriptor) {
	topic := desc.Param("topic")
	if topic == "" {
		topic = desc.Param("description")
	}
	if topic == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me which concept to explain"))
		return
	}

	res := d.tools.ExplainConcept(ctx, topic)
	if !res.Success {
		d.renderResult(res)
		return
	}
	text, _ := res.Data.(string)
	fmt.Fprintln(d.out, d.renderer.Markdown(text))

	if d.session.Mode == ModeInteractive {
		target := strings.ReplaceAll(strings.ToLower(topic), " ", "_") + "_explanation.md"
		if d.confirm(fmt.Sprintf("Save this explanation to %s?", target)) {
			save := d.tools.CreateFile(ctx, target, text, "", "markdown")
			d.renderResult(save)
		}
	}
}

func (d *Dispatcher) doFix(ctx context.Context, desc intent.Descriptor, fixKind string) {
	filename, content, ok := d.focusFile(desc)
	if !ok {
		return
	}
	d.applyFix(ctx, filename, content, desc.Param("description"), fixKind)
}

// applyFix generates a fix, shows the explanation, applies it through the
// backup/diff/confirm protocol, and offers to run the result.
func (d *Dispatcher) applyFix(ctx context.Context, filename, content, errorInfo, fixKind string) {
	res := d.tools.FixCode(ctx, content, errorInfo, filename, prompt.Fix(fixKind))
	if !res.Success {
		d.renderResult(res)
		return
	}
	outcome, ok := res.Data.(toolkit.FixOutcome)
	if !ok || outcome.Code == "" {
		fmt.Fprintln(d.out, d.renderer.Error("the model returned no usable fix"))
		return
	}

	fmt.Fprintln(d.out, d.renderer.Markdown(outcome.Explanation))

	applied := d.tools.ApplyContent(filename, outcome.Code)
	d.renderResult(applied)
	if !applied.Success {
		return
	}

	d.session.FixesApplied++
	d.session.SetCurrentFile(filename, outcome.Code)

	if d.confirmOrAgent("Run the updated code?") {
		d.runAndRecord(ctx, filename, false)
	}
}

func (d *Dispatcher) doReview(ctx context.Context, desc intent.Descriptor, kind string) {
	filename, content, ok := d.focusFile(desc)
	if !ok {
		return
	}

	var res toolkit.Result
	var fixKind string
	switch kind {
	case "refactor":
		res = d.tools.RefactorCode(ctx, content, filename)
		fixKind = prompt.FixRefactoring
	case "security":
		res = d.tools.SecurityAudit(ctx, content, filename)
		fixKind = prompt.FixSecurity
	case "optimize":
		res = d.tools.OptimizeCode(ctx, content, filename)
		fixKind = prompt.FixPerformance
	}

	if !res.Success {
		d.renderResult(res)
		return
	}
	text, _ := res.Data.(string)
	fmt.Fprintln(d.out, d.renderer.Markdown(text))

	if d.confirmOrAgent("Implement these suggestions?") {
		d.applyFix(ctx, filename, content, "", fixKind)
	}
}

func (d *Dispatcher) doPredictBugs(ctx context.Context, desc intent.Descriptor) {
	_, content, ok := d.focusFile(desc)
	if !ok {
		return
	}
	res := d.tools.PredictBugs(ctx, content)
	if !res.Success {
		d.renderResult(res)
		return
	}
	if text, ok := res.Data.(string); ok {
		fmt.Fprintln(d.out, d.renderer.Markdown(text))
	}
}

func (d *Dispatcher) doRun(ctx context.Context, desc intent.Descriptor) {
	filename := desc.Param("filename")
	if filename == "" {
		filename = d.session.CurrentFile
	}
	if filename == "" {
		fmt.Fprintln(d.out, d.renderer.Error("no file in focus; tell me which file to run"))
		return
	}
	d.runAndRecord(ctx, filename, true)
}

// runAndRecord executes a file, updates the success counter, and on a
// failing run optionally routes the captured error into the fix flow.
func (d *Dispatcher) runAndRecord(ctx context.Context, filename string, offerFix bool) {
	res := d.tools.RunFile(ctx, filename)

	outcome, ok := res.Data.(toolkit.RunOutcome)
	if ok && outcome.Output != "" {
		fmt.Fprintln(d.out, d.renderer.Panel("Output", outcome.Output))
	}

	if res.Success {
		d.session.SuccessfulRuns++
		d.renderResult(res)
		return
	}

	d.renderResult(res)
	if !ok || outcome.ErrorInfo == "" || !offerFix {
		return
	}

	if d.confirmOrAgent("The run failed. Attempt a fix?") {
		raw, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintln(d.out, d.renderer.Error(fmt.Sprintf("cannot read %s: %v", filename, err)))
			return
		}
		d.applyFix(ctx, filename, string(raw), outcome.ErrorInfo, prompt.FixGeneral)
	}
}

func (d *Dispatcher) doChat(ctx context.Context, desc intent.Descriptor) {
	// When resolution produced a response, that response is the answer and
	// was already rendered. Only call the gateway when there is nothing to
	// show yet (e.g. a descriptor built by the direct front-end).
	if desc.Response != "" {
		return
	}

	question := desc.Param("description")
	if question == "" {
		if hist := d.session.History(); len(hist) > 0 {
			question = hist[len(hist)-1].Content
		}
	}

	codeContext := ""
	if d.session.FileContent != "" {
		codeContext = fmt.Sprintf("file %s:\n%s", d.session.CurrentFile, d.session.FileContent)
	} else if path, head := relevantSnippet(d.workDir, question); path != "" {
		codeContext = fmt.Sprintf("possibly relevant file %s:\n%s", path, head)
	}

	res := d.tools.ChatCompletion(ctx, question, codeContext, d.session.History())
	if !res.Success {
		d.renderResult(res)
		return
	}
	if text, ok := res.Data.(string); ok {
		fmt.Fprintln(d.out, d.renderer.Markdown(text))
		d.session.AppendTurn(llm.RoleAssistant, text)
	}
}

func (d *Dispatcher) doHistory() {
	var b strings.Builder
	fmt.Fprintf(&b, "Files analyzed: %d\n", len(d.session.AnalyzedFiles()))
	for _, f := range d.session.AnalyzedFiles() {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	fmt.Fprintf(&b, "Files generated: %d\n", len(d.session.GeneratedFiles()))
	for _, f := range d.session.GeneratedFiles() {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	fmt.Fprintf(&b, "Fixes applied: %d\n", d.session.FixesApplied)
	fmt.Fprintf(&b, "Successful runs: %d", d.session.SuccessfulRuns)
	fmt.Fprintln(d.out, d.renderer.Panel("Session history", b.String()))
}

func (d *Dispatcher) doShow() {
	if d.session.CurrentFile == "" {
		fmt.Fprintln(d.out, d.renderer.Notice("No file in focus yet."))
		return
	}
	fmt.Fprintln(d.out, d.renderer.Panel(d.session.CurrentFile, d.session.FileContent))
}

func (d *Dispatcher) doReadFile(desc intent.Descriptor) {
	filename := desc.Param("filename")
	if filename == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me which file to read"))
		return
	}
	start, _ := strconv.Atoi(desc.Param("start_line"))
	end, _ := strconv.Atoi(desc.Param("end_line"))

	res := d.tools.ReadFile(filename, start, end)
	if !res.Success {
		d.renderResult(res)
		return
	}
	data, _ := res.Data.(map[string]string)
	content := data["content"]
	if start == 0 && end == 0 {
		d.session.SetCurrentFile(filename, content)
	}
	fmt.Fprintln(d.out, d.renderer.Panel(filename, content))
}

func (d *Dispatcher) doEdit(ctx context.Context, desc intent.Descriptor) {
	filename := desc.Param("filename")
	if filename == "" {
		filename = d.session.CurrentFile
	}
	if filename == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me which file to edit"))
		return
	}

	changes := desc.Param("description")
	if changes == "" {
		changes = desc.Param("code")
	}
	lineNumber, _ := strconv.Atoi(desc.Param("line_number"))

	res := d.tools.EditFile(ctx, filename, changes, lineNumber, nil)
	d.renderResult(res)
	if res.Success {
		if data, ok := res.Data.(map[string]string); ok {
			d.session.SetCurrentFile(filename, data["content"])
		}
	}
}

func (d *Dispatcher) doList(desc intent.Descriptor) {
	show, _ := strconv.ParseBool(desc.Param("show_hidden"))
	res := d.tools.ListFiles(desc.Param("directory"), desc.Param("pattern"), show)
	if !res.Success {
		d.renderResult(res)
		return
	}
	listing, ok := res.Data.(toolkit.Listing)
	if !ok {
		return
	}

	var b strings.Builder
	for _, e := range listing.Directories {
		fmt.Fprintf(&b, "%s/\n", e.Name)
	}
	for _, e := range listing.Files {
		fmt.Fprintf(&b, "%s (%s)\n", e.Name, e.Size)
	}
	fmt.Fprintln(d.out, d.renderer.Panel(listing.Directory, strings.TrimRight(b.String(), "\n")))
}

func (d *Dispatcher) doDeleteKey() {
	if d.keystore == nil {
		fmt.Fprintln(d.out, d.renderer.Notice("No credential store configured."))
		return
	}
	if !d.keystore.Exists() {
		fmt.Fprintln(d.out, d.renderer.Notice("No saved API key found."))
		return
	}
	if err := d.keystore.Delete(); err != nil {
		fmt.Fprintln(d.out, d.renderer.Error(err.Error()))
		return
	}
	fmt.Fprintln(d.out, d.renderer.Success("Saved API key deleted. The current session keeps its key until exit."))
}

func (d *Dispatcher) doSearch(ctx context.Context, desc intent.Descriptor) {
	query := desc.Param("query")
	if query == "" {
		query = desc.Param("description")
	}
	if query == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me what to search for"))
		return
	}

	res := d.tools.WebSearch(ctx, query, false)
	if !res.Success {
		d.renderResult(res)
		return
	}
	outcome, ok := res.Data.(toolkit.SearchOutcome)
	if !ok {
		return
	}
	if outcome.Summary != "" {
		fmt.Fprintln(d.out, d.renderer.Markdown(outcome.Summary))
	} else if outcome.Answer != "" {
		fmt.Fprintln(d.out, d.renderer.Markdown(outcome.Answer))
	}
	for i, r := range outcome.Results {
		fmt.Fprintln(d.out, d.renderer.Notice(fmt.Sprintf("%d. %s — %s", i+1, r.Title, r.URL)))
	}
}

func (d *Dispatcher) doCreate(ctx context.Context, desc intent.Descriptor) {
	filename := desc.Param("filename")
	if filename == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me what to name the file"))
		return
	}

	res := d.tools.CreateFile(ctx, filename, desc.Param("code"), desc.Param("description"), desc.Param("language"))
	d.renderResult(res)
	if res.Success {
		if data, ok := res.Data.(map[string]string); ok {
			d.session.SetCurrentFile(filename, data["content"])
		}
		d.session.RecordGenerated(filename)
	}
}

func (d *Dispatcher) doDelete(ctx context.Context, desc intent.Descriptor) {
	filename := desc.Param("filename")
	if filename == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me which file to delete"))
		return
	}

	res := d.tools.DeleteFile(ctx, filename)
	d.renderResult(res)
	if res.Success && filename == d.session.CurrentFile {
		d.session.SetCurrentFile("", "")
	}
}

func (d *Dispatcher) doExec(ctx context.Context, desc intent.Descriptor) {
	command := desc.Param("command")
	if command == "" {
		command = desc.Param("description")
	}
	if command == "" {
		fmt.Fprintln(d.out, d.renderer.Error("tell me which command to run"))
		return
	}

	res := d.tools.ExecuteCommand(ctx, command, d.workDir, 0)
	if out, ok := res.Data.(toolkit.ExecOutput); ok {
		body := out.Stdout
		if out.Stderr != "" {
			body += "\n" + out.Stderr
		}
		if strings.TrimSpace(body) != "" {
			fmt.Fprintln(d.out, d.renderer.Panel(command, strings.TrimRight(body, "\n")))
		}
	}
	d.renderResult(res)
}

func (d *Dispatcher) doUseTool(ctx context.Context, desc intent.Descriptor) {
	name := desc.Param("tool_name")
	if name == "" {
		var b strings.Builder
		for _, s := range d.tools.Schemas() {
			fmt.Fprintf(&b, "%s — %s\n", s.Name, s.Description)
		}
		fmt.Fprintln(d.out, d.renderer.Panel("Available tools", strings.TrimRight(b.String(), "\n")))
		return
	}

	args := map[string]string{}
	if rawArgs := desc.Param("tool_args"); rawArgs != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			// Fall back to comma-separated key=value pairs.
			for _, pair := range strings.Split(rawArgs, ",") {
				if k, v, found := strings.Cut(pair, "="); found {
					args[strings.TrimSpace(k)] = strings.TrimSpace(v)
				}
			}
		}
	}

	res := d.tools.Invoke(ctx, name, args)
	d.renderResult(res)
	if res.Success && res.Data != nil {
		if text, ok := res.Data.(string); ok {
			fmt.Fprintln(d.out, d.renderer.Markdown(text))
		}
	}
}

func formatIssueReport(report analysis.IssueReport) string {
	if !report.HasIssues() {
		return "No issues found."
	}

	var b strings.Builder
	section := func(title string, issues []analysis.Issue) {
		if len(issues) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", title)
		for _, issue := range issues {
			fmt.Fprintf(&b, "  line %d: %s\n", issue.Line, issue.Message)
		}
	}
	section("Syntax errors", report.SyntaxErrors)
	section("Undefined names", report.UndefinedNames)
	section("Unused variables", report.UnusedVariables)
	section("Complexity issues", report.ComplexityIssues)
	return strings.TrimRight(b.String(), "\n")
}

func formatMetrics(m analysis.Metrics) string {
	ratings := m.Ratings()
	var b strings.Builder
	fmt.Fprintf(&b, "Lines: %d (%s)\n", m.Lines, ratings["lines"])
	fmt.Fprintf(&b, "Functions: %d (%s)\n", m.Functions, ratings["functions"])
	fmt.Fprintf(&b, "Types: %d\n", m.Types)
	fmt.Fprintf(&b, "Imports: %d\n", m.Imports)
	fmt.Fprintf(&b, "Comment lines: %d\n", m.CommentLines)
	fmt.Fprintf(&b, "Cyclomatic complexity: %d (%s)", m.Cyclomatic, ratings["cyclomatic_complexity"])
	if m.ParseError != "" {
		fmt.Fprintf(&b, "\nParse error: %s", m.ParseError)
	}
	return b.String()
}
