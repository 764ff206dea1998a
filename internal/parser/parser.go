package parser

import (
	"fmt"
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Extractor turns a parsed syntax tree into a File. One implementation per
// language; adding a language never touches the graph or detector code.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, filePath string) (*File, error)
}

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// ParseFile extracts imports and definitions from one source file. A file
// whose syntax tree contains errors comes back with an empty import list and
// a non-nil diagnostic; the error return is reserved for files that cannot be
// processed at all (unknown language, missing grammar).
func (p *Parser) ParseFile(path string, content []byte) (*File, *Diagnostic, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, nil, fmt.Errorf("unsupported language: %s", path)
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, nil, fmt.Errorf("grammar not loaded: %s", lang)
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, nil, fmt.Errorf("no extractor for: %s", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("parse failed: %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()

	if root.HasError() {
		// Broken syntax: keep the file as a module node but contribute no
		// edges, so one bad file never sinks the run.
		return &File{Path: path, Language: lang}, &Diagnostic{
			Path:   path,
			Kind:   DiagParseError,
			Detail: "syntax errors in parse tree",
		}, nil
	}

	file, err := extractor.Extract(root, content, path)
	if err != nil {
		return nil, nil, err
	}
	return file, nil, nil
}

// DetectLanguage maps a file extension to a registered language name, or ""
// when the file is not analyzable.
func DetectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".py":
		return "python"
	case ".go":
		return "go"
	case ".js", ".mjs", ".cjs":
		return "javascript"
	default:
		return ""
	}
}
