package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type JavaScriptExtractor struct{}

func (e *JavaScriptExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: "javascript",
	}

	e.walk(root, source, file)

	return file, nil
}

func (e *JavaScriptExtractor) walk(node *sitter.Node, source []byte, file *File) {
	switch node.Kind() {
	case "import_statement", "export_statement":
		e.extractModuleSource(node, source, file)
	case "call_expression":
		e.extractRequire(node, source, file)
	case "function_declaration":
		e.extractDefinition(node, source, file, KindFunction, "identifier")
	case "class_declaration":
		e.extractDefinition(node, source, file, KindClass, "identifier")
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, file)
	}
}

// extractModuleSource handles `import ... from "x"` and `export ... from "x"`.
// Export statements without a source clause are ignored.
func (e *JavaScriptExtractor) extractModuleSource(node *sitter.Node, source []byte, file *File) {
	src := node.ChildByFieldName("source")
	if src == nil {
		return
	}

	target := trimStringLiteral(e.getText(src, source))
	if target == "" {
		return
	}

	file.Imports = append(file.Imports, Import{
		Target:   target,
		Location: e.getLocation(node, file.Path),
	})
}

func (e *JavaScriptExtractor) extractRequire(node *sitter.Node, source []byte, file *File) {
	fn := node.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || e.getText(fn, source) != "require" {
		return
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return
	}

	for i := uint(0); i < args.ChildCount(); i++ {
		arg := args.Child(i)
		if arg.Kind() != "string" {
			continue
		}
		target := trimStringLiteral(e.getText(arg, source))
		if target != "" {
			file.Imports = append(file.Imports, Import{
				Target:   target,
				Location: e.getLocation(node, file.Path),
			})
		}
		return
	}
}

func (e *JavaScriptExtractor) extractDefinition(node *sitter.Node, source []byte, file *File, kind DefinitionKind, nameKind string) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == nameKind {
			name := e.getText(child, source)
			def := Definition{
				Name:     name,
				Kind:     kind,
				Exported: true,
				Location: e.getLocation(node, file.Path),
			}
			if kind == KindFunction {
				def.Complexity = cyclomaticComplexity(node, "javascript")
			}
			file.Definitions = append(file.Definitions, def)
			return
		}
	}
}

func trimStringLiteral(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	return s
}

func (e *JavaScriptExtractor) getLocation(node *sitter.Node, filePath string) Location {
	return Location{
		File:   filePath,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (e *JavaScriptExtractor) getText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
