package jsx

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/viant/effectlint/inspector/graph"
)

const defaultFilename = "source.jsx"

// Inspector parses JavaScript/TypeScript sources and discovers components and imports
type Inspector struct{}

// NewInspector creates a new JSX Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Language returns the grammar name used for the file extension
func Language(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsx":
		return "tsx"
	case ".ts", ".mts", ".cts":
		return "typescript"
	default:
		return "javascript"
	}
}

func grammar(language string) *sitter.Language {
	switch language {
	case "tsx":
		return tsx.GetLanguage()
	case "typescript":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// InspectSource parses JSX source code from a byte slice
func (i *Inspector) InspectSource(src []byte) (*graph.File, error) {
	return i.Inspect(context.Background(), defaultFilename, src)
}

// Inspect parses the source with the grammar matching the filename extension
func (i *Inspector) Inspect(ctx context.Context, filename string, src []byte) (*graph.File, error) {
	language := Language(filename)
	parser := sitter.NewParser()
	parser.SetLanguage(grammar(language))
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	hash, err := graph.Hash([]byte(filename), src)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", filename, err)
	}
	root := tree.RootNode()
	aFile := &graph.File{
		Path:      filename,
		Language:  language,
		Hash:      hash,
		Source:    src,
		Root:      root,
		HasErrors: root.HasError(),
	}
	for _, child := range NamedChildren(root) {
		switch child.Type() {
		case "import_statement":
			aFile.Imports = append(aFile.Imports, parseImports(child, src)...)
		case "export_statement":
			i.processExport(aFile, child, src)
		default:
			i.processDeclaration(aFile, child, src, false)
		}
	}
	aFile.IndexComponents()
	return aFile, nil
}

func (i *Inspector) processExport(aFile *graph.File, node *sitter.Node, src []byte) {
	if declaration := node.ChildByFieldName("declaration"); declaration != nil {
		i.processDeclaration(aFile, declaration, src, true)
		return
	}
	value := node.ChildByFieldName("value")
	if value == nil {
		return
	}
	value = Unwrap(value)
	if IsFunctionLiteral(value) {
		name := "default"
		if nameNode := value.ChildByFieldName("name"); nameNode != nil {
			name = Content(nameNode, src)
		}
		aFile.AddComponent(newComponent(name, value, true))
	}
}

func (i *Inspector) processDeclaration(aFile *graph.File, node *sitter.Node, src []byte, exported bool) {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		aFile.AddComponent(newComponent(Content(nameNode, src), node, exported))
	case "lexical_declaration", "variable_declaration":
		for _, declarator := range NamedChildren(node) {
			if declarator.Type() != "variable_declarator" {
				continue
			}
			nameNode := declarator.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			value := Unwrap(declarator.ChildByFieldName("value"))
			if !IsFunctionLiteral(value) {
				continue
			}
			aFile.AddComponent(newComponent(Content(nameNode, src), value, exported))
		}
	}
}

func newComponent(name string, fn *sitter.Node, exported bool) *graph.Component {
	kind := "expression"
	switch fn.Type() {
	case "function_declaration", "generator_function_declaration":
		kind = "function"
	case "arrow_function":
		kind = "arrow"
	}
	return &graph.Component{
		Name:     name,
		Kind:     kind,
		Exported: exported,
		Node:     fn,
		Location: graph.NewLocation(fn),
	}
}

// parseImports extracts the local names bound by an import statement
func parseImports(node *sitter.Node, src []byte) []graph.Import {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil
	}
	importPath := strings.Trim(Content(sourceNode, src), "'\"`")
	var imports []graph.Import
	for _, child := range NamedChildren(node) {
		if child.Type() != "import_clause" {
			continue
		}
		for _, clause := range NamedChildren(child) {
			switch clause.Type() {
			case "identifier":
				imports = append(imports, graph.Import{Name: Content(clause, src), Path: importPath})
			case "namespace_import":
				for _, name := range NamedChildren(clause) {
					if name.Type() == "identifier" {
						imports = append(imports, graph.Import{Name: Content(name, src), Path: importPath})
					}
				}
			case "named_imports":
				for _, specifier := range NamedChildren(clause) {
					if specifier.Type() != "import_specifier" {
						continue
					}
					nameNode := specifier.ChildByFieldName("alias")
					if nameNode == nil {
						nameNode = specifier.ChildByFieldName("name")
					}
					if nameNode != nil {
						imports = append(imports, graph.Import{Name: Content(nameNode, src), Path: importPath})
					}
				}
			}
		}
	}
	return imports
}
