// Package analysis implements fast local source diagnostics: a single-pass,
// scope-insensitive syntax tree walk producing unused-name, undefined-name,
// and oversized-function findings, plus simplified complexity metrics.
//
// The analysis is intentionally crude. There is no scope resolution and no
// type checking, so names bound in enclosing scopes or via dot imports can
// false-positive. It exists to give free, zero-latency signal before
// spending a remote model call, not to replace the compiler.
package analysis

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// longFunctionThreshold is the statement count above which a function body
// is reported as a complexity issue.
const longFunctionThreshold = 50

// Issue is one diagnostic finding.
type Issue struct {
	Name    string `json:"name,omitempty"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// IssueReport groups findings into the four diagnostic buckets.
type IssueReport struct {
	SyntaxErrors     []Issue `json:"syntax_errors"`
	UndefinedNames   []Issue `json:"undefined_names"`
	UnusedVariables  []Issue `json:"unused_variables"`
	ComplexityIssues []Issue `json:"complexity_issues"`
}

// HasIssues reports whether any bucket is non-empty.
func (r IssueReport) HasIssues() bool {
	return len(r.SyntaxErrors)+len(r.UndefinedNames)+len(r.UnusedVariables)+len(r.ComplexityIssues) > 0
}

// Analyze parses source text and returns a diagnostic report. It never
// fails: a parse error becomes a single syntax-error entry and all other
// buckets stay empty.
func Analyze(filename, src string) IssueReport {
	var report IssueReport

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		report.SyntaxErrors = append(report.SyntaxErrors, syntaxIssue(err))
		return report
	}

	bound, referenced := collectNames(fset, file)

	for name, line := range bound {
		if referenced[name].count > 0 {
			continue
		}
		if strings.HasPrefix(name, "_") {
			continue
		}
		// Exported names, main, and init are part of the package surface
		// and are referenced from outside the file under analysis.
		if name == "main" || name == "init" || ast.IsExported(name) {
			continue
		}
		report.UnusedVariables = append(report.UnusedVariables, Issue{
			Name:    name,
			Line:    line,
			Message: fmt.Sprintf("'%s' is bound but never used", name),
		})
	}

	for name, ref := range referenced {
		if _, ok := bound[name]; ok {
			continue
		}
		if builtinNames[name] {
			continue
		}
		report.UndefinedNames = append(report.UndefinedNames, Issue{
			Name:    name,
			Line:    ref.line,
			Message: fmt.Sprintf("'%s' is referenced but never bound in this file", name),
		})
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok && fn.Body != nil && len(fn.Body.List) > longFunctionThreshold {
			report.ComplexityIssues = append(report.ComplexityIssues, Issue{
				Name:    fn.Name.Name,
				Line:    fset.Position(fn.Pos()).Line,
				Message: fmt.Sprintf("function '%s' is too long (%d statements)", fn.Name.Name, len(fn.Body.List)),
			})
		}
	}

	sortIssues(report.UnusedVariables)
	sortIssues(report.UndefinedNames)
	sortIssues(report.ComplexityIssues)
	return report
}

func sortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Name < issues[j].Name
	})
}

func syntaxIssue(err error) Issue {
	var list scanner.ErrorList
	if ok := asErrorList(err, &list); ok && len(list) > 0 {
		first := list[0]
		return Issue{Line: first.Pos.Line, Message: first.Msg}
	}
	return Issue{Line: 0, Message: err.Error()}
}

func asErrorList(err error, out *scanner.ErrorList) bool {
	list, ok := err.(scanner.ErrorList)
	if ok {
		*out = list
	}
	return ok
}

type reference struct {
	line  int
	count int
}

// collectNames walks the file once, splitting identifiers into bound names
// (declaration and assignment targets, parameters, loop variables, imports)
// and referenced names (read sites). Field selectors, struct field names,
// composite literal keys, and labels are excluded from both sets.
func collectNames(fset *token.FileSet, file *ast.File) (map[string]int, map[string]reference) {
	binds := make(map[*ast.Ident]bool)
	skips := make(map[*ast.Ident]bool)
	skips[file.Name] = true

	markFields := func(list *ast.FieldList, m map[*ast.Ident]bool) {
		if list == nil {
			return
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				m[name] = true
			}
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncDecl:
			binds[node.Name] = true
			markFields(node.Recv, binds)
		case *ast.FuncType:
			markFields(node.Params, binds)
			markFields(node.Results, binds)
		case *ast.ValueSpec:
			for _, name := range node.Names {
				binds[name] = true
			}
		case *ast.TypeSpec:
			binds[node.Name] = true
		case *ast.ImportSpec:
			if node.Name != nil {
				binds[node.Name] = true
			}
		case *ast.AssignStmt:
			// Any assignment target counts as a binding, mirroring the
			// store/load split of the original name analysis.
			for _, lhs := range node.Lhs {
				if ident, ok := lhs.(*ast.Ident); ok {
					binds[ident] = true
				}
			}
		case *ast.RangeStmt:
			if ident, ok := node.Key.(*ast.Ident); ok {
				binds[ident] = true
			}
			if ident, ok := node.Value.(*ast.Ident); ok {
				binds[ident] = true
			}
		case *ast.SelectorExpr:
			skips[node.Sel] = true
		case *ast.StructType:
			markFields(node.Fields, skips)
		case *ast.InterfaceType:
			markFields(node.Methods, skips)
		case *ast.KeyValueExpr:
			if ident, ok := node.Key.(*ast.Ident); ok {
				skips[ident] = true
			}
		case *ast.LabeledStmt:
			skips[node.Label] = true
		case *ast.BranchStmt:
			if node.Label != nil {
				skips[node.Label] = true
			}
		}
		return true
	})

	bound := make(map[string]int)
	referenced := make(map[string]reference)

	// Package names bound by plain imports.
	for _, imp := range file.Imports {
		if imp.Name != nil {
			continue
		}
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			name = path[idx+1:]
		}
		if _, ok := bound[name]; !ok {
			bound[name] = fset.Position(imp.Pos()).Line
		}
	}

	ast.Inspect(file, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok || ident.Name == "_" || skips[ident] {
			return true
		}
		line := fset.Position(ident.Pos()).Line
		if binds[ident] {
			if _, seen := bound[ident.Name]; !seen {
				bound[ident.Name] = line
			}
			return true
		}
		ref := referenced[ident.Name]
		if ref.count == 0 {
			ref.line = line
		}
		ref.count++
		referenced[ident.Name] = ref
		return true
	})

	return bound, referenced
}

// builtinNames are identifiers from the universe scope that are never bound
// in a source file.
var builtinNames = map[string]bool{
	"append": true, "cap": true, "clear": true, "close": true, "complex": true,
	"copy": true, "delete": true, "imag": true, "len": true, "make": true,
	"max": true, "min": true, "new": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true,
	"bool": true, "byte": true, "complex64": true, "complex128": true,
	"error": true, "float32": true, "float64": true, "int": true, "int8": true,
	"int16": true, "int32": true, "int64": true, "rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "any": true, "comparable": true,
	"true": true, "false": true, "iota": true, "nil": true,
}
