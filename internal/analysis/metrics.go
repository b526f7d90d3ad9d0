package analysis

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// Metrics summarizes size and complexity of one source file. Cyclomatic
// complexity is a syntactic approximation: 1 plus one per if and for
// statement, plus, for each switch or select, 1 plus its number of case
// clauses. Compound conditions count as a single branch.
type Metrics struct {
	Lines        int    `json:"lines"`
	Functions    int    `json:"functions"`
	Types        int    `json:"types"`
	Imports      int    `json:"imports"`
	CommentLines int    `json:"comment_lines"`
	Cyclomatic   int    `json:"cyclomatic_complexity"`
	ParseError   string `json:"error,omitempty"`
}

// ComputeMetrics computes metrics for source text. On a parse failure the
// line count is still reported along with the parser's message.
func ComputeMetrics(filename, src string) Metrics {
	m := Metrics{Lines: countLines(src)}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		m.ParseError = err.Error()
		return m
	}

	for _, group := range file.Comments {
		m.CommentLines += fset.Position(group.End()).Line - fset.Position(group.Pos()).Line + 1
	}

	branches := 0
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncDecl:
			m.Functions++
		case *ast.TypeSpec:
			m.Types++
		case *ast.ImportSpec:
			m.Imports++
		case *ast.IfStmt:
			branches++
		case *ast.ForStmt:
			branches++
		case *ast.RangeStmt:
			branches++
		case *ast.SwitchStmt:
			branches += 1 + len(node.Body.List)
		case *ast.TypeSwitchStmt:
			branches += 1 + len(node.Body.List)
		case *ast.SelectStmt:
			branches += 1 + len(node.Body.List)
		}
		return true
	})
	m.Cyclomatic = 1 + branches

	return m
}

// Ratings buckets lines, cyclomatic complexity, and function count into
// fixed-threshold labels. Other metrics get no rating.
func (m Metrics) Ratings() map[string]string {
	ratings := map[string]string{}

	switch {
	case m.Lines < 100:
		ratings["lines"] = "Good"
	case m.Lines < 300:
		ratings["lines"] = "Moderate"
	default:
		ratings["lines"] = "High"
	}

	switch {
	case m.Cyclomatic < 5:
		ratings["cyclomatic_complexity"] = "Low"
	case m.Cyclomatic < 10:
		ratings["cyclomatic_complexity"] = "Moderate"
	default:
		ratings["cyclomatic_complexity"] = "High"
	}

	switch {
	case m.Functions < 5:
		ratings["functions"] = "Simple"
	case m.Functions < 15:
		ratings["functions"] = "Moderate"
	default:
		ratings["functions"] = "Complex"
	}

	return ratings
}

func countLines(src string) int {
	if src == "" {
		return 0
	}
	return strings.Count(src, "\n") + 1
}
