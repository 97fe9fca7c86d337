package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	Languages["python"] = &Language{
		Name:                "python",
		Extensions:          []string{".py"},
		lang:                python.GetLanguage(),
		EnclosingDefinition: pythonEnclosingDefinition,
		ModuleLevel:         pythonModuleLevel,
	}
}

// pythonEnclosingDefinition returns the name of the outermost class or
// function definition containing node, or "" for module-level nodes. A
// reference inside a method is attributed to the enclosing class, since the
// class is the exported symbol.
func pythonEnclosingDefinition(node *sitter.Node, source []byte) string {
	var outermost *sitter.Node
	for current := node.Parent(); current != nil; current = current.Parent() {
		switch current.Type() {
		case "class_definition", "function_definition":
			outermost = current
		}
	}
	if outermost == nil {
		return ""
	}
	for i := 0; i < int(outermost.ChildCount()); i++ {
		child := outermost.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

// pythonModuleLevel reports whether a definition node is directly at module
// scope, allowing for a decorated_definition wrapper.
func pythonModuleLevel(node *sitter.Node) bool {
	for current := node.Parent(); current != nil; current = current.Parent() {
		switch current.Type() {
		case "class_definition", "function_definition":
			return false
		}
	}
	return true
}
