// SPDX-License-Identifier: MPL-2.0

package dslist

import (
	"fmt"

	"github.com/invowk/dsidentify/internal/datasource"

	"gopkg.in/yaml.v3"
)

// ListKey is the configuration key holding the candidate list.
const ListKey = "datasource_list"

const strTag = "!!str"

// Extract pulls datasource_list out of a YAML document. ok is false when the
// document does not define the key, defines it as null, or is not usable at
// all. Non-string elements are skipped and reported; the remaining elements
// still form a list. An empty sequence is a defined, empty list.
//
// The returned diagnostics carry no Path.
func Extract(data []byte) (list []datasource.Name, ok bool, diags []Diagnostic) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, []Diagnostic{{
			Severity: SeverityWarning,
			Code:     CodeParseFailed,
			Message:  "configuration is not valid YAML",
			Cause:    err,
		}}
	}

	// Empty file.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, false, nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		if isNull(root) {
			return nil, false, nil
		}
		return nil, false, []Diagnostic{{
			Severity: SeverityWarning,
			Code:     CodeNotMapping,
			Message:  fmt.Sprintf("top-level document is a %s, not a mapping", kindName(root.Kind)),
		}}
	}

	value := lookup(root, ListKey)
	if value == nil || isNull(value) {
		return nil, false, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, false, []Diagnostic{{
			Severity: SeverityWarning,
			Code:     CodeListNotSequence,
			Message:  fmt.Sprintf("%s is a %s, not a sequence", ListKey, kindName(value.Kind)),
		}}
	}

	list = make([]datasource.Name, 0, len(value.Content))
	for i, elem := range value.Content {
		elem = resolveAlias(elem)
		if elem.Kind != yaml.ScalarNode || elem.ShortTag() != strTag {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeElementSkipped,
				Message:  fmt.Sprintf("%s[%d] at line %d is not a string", ListKey, i, elem.Line),
			})
			continue
		}
		list = append(list, datasource.Name(elem.Value))
	}
	return list, true, diags
}

// lookup returns the value node for key in a mapping. Later duplicates win,
// matching how YAML loaders that tolerate duplicate keys behave.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k := resolveAlias(mapping.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key {
			found = resolveAlias(mapping.Content[i+1])
		}
	}
	return found
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}
