package parser

import sitter "github.com/tree-sitter/go-tree-sitter"

// Decision-point node kinds per language. The score is a simplified
// cyclomatic complexity: decision points + 1.
var branchKinds = map[string]map[string]bool{
	"python": {
		"if_statement":             true,
		"elif_clause":              true,
		"for_statement":            true,
		"while_statement":          true,
		"except_clause":            true,
		"case_clause":              true,
		"conditional_expression":   true,
		"boolean_operator":         true,
		"list_comprehension":       true,
		"dictionary_comprehension": true,
		"set_comprehension":        true,
		"generator_expression":     true,
		"assert_statement":         true,
	},
	"go": {
		"if_statement":       true,
		"for_statement":      true,
		"expression_case":    true,
		"type_case":          true,
		"communication_case": true,
	},
	"javascript": {
		"if_statement":       true,
		"for_statement":      true,
		"for_in_statement":   true,
		"while_statement":    true,
		"do_statement":       true,
		"switch_case":        true,
		"catch_clause":       true,
		"ternary_expression": true,
	},
}

func cyclomaticComplexity(node *sitter.Node, language string) int {
	kinds := branchKinds[language]
	score := 1

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if kinds[child.Kind()] {
				score++
			}
			walk(child)
		}
	}
	walk(node)

	return score
}
