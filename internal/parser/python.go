package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: "python",
	}

	e.walk(root, source, file)

	return file, nil
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, file *File) {
	switch node.Kind() {
	case "import_statement":
		e.extractImport(node, source, file)
	case "import_from_statement":
		e.extractFromImport(node, source, file)
	case "function_definition":
		e.extractDefinition(node, source, file, KindFunction)
	case "class_definition":
		e.extractDefinition(node, source, file, KindClass)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, file)
	}
}

func (e *PythonExtractor) extractImport(node *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			target := e.getText(child, source)
			file.Imports = append(file.Imports, Import{
				Target:   target,
				Location: e.getLocation(child, file.Path),
			})
		case "aliased_import":
			var target, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if target == "" {
						target = e.getText(sub, source)
					} else {
						alias = e.getText(sub, source)
					}
				}
			}
			file.Imports = append(file.Imports, Import{
				Target:   target,
				Alias:    alias,
				Location: e.getLocation(child, file.Path),
			})
		}
	}
}

func (e *PythonExtractor) extractFromImport(node *sitter.Node, source []byte, file *File) {
	var target string
	var items []string
	level := 0

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "relative_import":
			relText := e.getText(child, source)
			level = len(relText) - len(strings.TrimLeft(relText, "."))
			target = strings.TrimLeft(relText, ".")

		case "dotted_name", "identifier":
			if level == 0 && target == "" {
				target = e.getText(child, source)
			}

		case "import_list", "aliased_import":
			e.collectItems(child, source, &items)
		}
	}

	// "from X import name" without an import_list wraps the name directly.
	if len(items) == 0 {
		afterImport := false
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "import" {
				afterImport = true
				continue
			}
			if afterImport && (child.Kind() == "identifier" || child.Kind() == "dotted_name") {
				items = append(items, e.getText(child, source))
			}
		}
	}

	file.Imports = append(file.Imports, Import{
		Target:        target,
		Items:         items,
		RelativeLevel: level,
		Location:      e.getLocation(node, file.Path),
	})
}

func (e *PythonExtractor) collectItems(node *sitter.Node, source []byte, items *[]string) {
	kind := node.Kind()
	if kind == "identifier" || kind == "dotted_name" {
		*items = append(*items, e.getText(node, source))
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.collectItems(node.Child(i), source, items)
	}
}

func (e *PythonExtractor) extractDefinition(node *sitter.Node, source []byte, file *File, kind DefinitionKind) {
	name := ""
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "identifier" {
			name = e.getText(child, source)
			break
		}
	}
	if name == "" {
		return
	}

	def := Definition{
		Name:     name,
		Kind:     kind,
		Exported: !strings.HasPrefix(name, "_"),
		Location: e.getLocation(node, file.Path),
	}
	if kind == KindFunction {
		def.Complexity = cyclomaticComplexity(node, "python")
	}
	file.Definitions = append(file.Definitions, def)
}

func (e *PythonExtractor) getLocation(node *sitter.Node, filePath string) Location {
	return Location{
		File:   filePath,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (e *PythonExtractor) getText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
