package ast

// Each map below is a static mapping from one language's tree-sitter grammar
// node kind to the normalized NodeKind applied during the preorder walk.
// Node kinds not present in a map are not chunk/boundary candidates and are
// simply traversed through.

var pythonKinds = map[string]NodeKind{
	"module":                NodeModule,
	"class_definition":      NodeClass,
	"function_definition":   NodeFunction,
	"decorated_definition":  NodeDecorator,
	"import_statement":      NodeImport,
	"import_from_statement": NodeImport,
	"assignment":            NodeVariable,
	"comment":               NodeComment,
}

var javascriptKinds = map[string]NodeKind{
	"program":               NodeModule,
	"class_declaration":     NodeClass,
	"function_declaration":  NodeFunction,
	"method_definition":     NodeMethod,
	"import_statement":      NodeImport,
	"lexical_declaration":   NodeVariable,
	"variable_declaration":  NodeVariable,
	"comment":               NodeComment,
}

var typescriptKinds = map[string]NodeKind{
	"program":                NodeModule,
	"class_declaration":      NodeClass,
	"interface_declaration":  NodeInterface,
	"enum_declaration":       NodeEnum,
	"type_alias_declaration": NodeStruct,
	"function_declaration":   NodeFunction,
	"method_definition":      NodeMethod,
	"import_statement":       NodeImport,
	"lexical_declaration":    NodeVariable,
	"variable_declaration":   NodeVariable,
	"comment":                NodeComment,
}

var goKinds = map[string]NodeKind{
	"source_file":         NodeModule,
	"function_declaration": NodeFunction,
	"method_declaration":  NodeMethod,
	"type_declaration":    NodeStruct,
	"import_declaration":  NodeImport,
	"const_declaration":   NodeConstant,
	"var_declaration":     NodeVariable,
	"comment":             NodeComment,
}

var rustKinds = map[string]NodeKind{
	"source_file":   NodeModule,
	"mod_item":      NodeModule,
	"struct_item":   NodeStruct,
	"enum_item":     NodeEnum,
	"trait_item":    NodeTrait,
	"impl_item":     NodeImpl,
	"function_item": NodeFunction,
	"use_declaration": NodeImport,
	"const_item":    NodeConstant,
	"static_item":   NodeVariable,
	"line_comment":  NodeComment,
	"block_comment": NodeComment,
	"attribute_item": NodeDecorator,
}

var javaKinds = map[string]NodeKind{
	"program":              NodeModule,
	"class_declaration":    NodeClass,
	"interface_declaration": NodeInterface,
	"enum_declaration":     NodeEnum,
	"method_declaration":   NodeMethod,
	"constructor_declaration": NodeMethod,
	"import_declaration":   NodeImport,
	"field_declaration":    NodeVariable,
	"line_comment":         NodeComment,
	"block_comment":        NodeComment,
	"annotation":           NodeDecorator,
	"marker_annotation":    NodeDecorator,
}

var cKinds = map[string]NodeKind{
	"translation_unit":   NodeModule,
	"function_definition": NodeFunction,
	"struct_specifier":   NodeStruct,
	"enum_specifier":     NodeEnum,
	"preproc_include":    NodeImport,
	"declaration":        NodeVariable,
	"comment":            NodeComment,
}

var cppKinds = map[string]NodeKind{
	"translation_unit":     NodeModule,
	"function_definition":  NodeFunction,
	"struct_specifier":     NodeStruct,
	"class_specifier":      NodeClass,
	"enum_specifier":       NodeEnum,
	"namespace_definition": NodeModule,
	"preproc_include":      NodeImport,
	"declaration":          NodeVariable,
	"comment":              NodeComment,
}

var rubyKinds = map[string]NodeKind{
	"program":          NodeModule,
	"class":            NodeClass,
	"module":           NodeModule,
	"method":           NodeMethod,
	"singleton_method": NodeMethod,
	"assignment":       NodeVariable,
	"comment":          NodeComment,
}
