package handler

import "strings"

// fieldTree is a parsed opt_fields value: "assignee.name,name" becomes
// {assignee: {name: {}}, name: {}}.
type fieldTree map[string]fieldTree

// parseFields parses a comma-separated opt_fields value. Dots descend into
// embedded objects.
func parseFields(optFields string) fieldTree {
	tree := fieldTree{}
	for _, field := range strings.Split(optFields, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		node := tree
		for _, part := range strings.Split(field, ".") {
			if part == "" {
				break
			}
			child, ok := node[part]
			if !ok {
				child = fieldTree{}
				node[part] = child
			}
			node = child
		}
	}
	return tree
}

// apply keeps gid, resource_type and the selected members of every object
// in v. Arrays are projected element by element; a leaf selection keeps the
// member unchanged.
func (t fieldTree) apply(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t)+2)
		for _, key := range []string{"gid", "resource_type"} {
			if member, ok := val[key]; ok {
				out[key] = member
			}
		}
		for key, sub := range t {
			member, ok := val[key]
			if !ok {
				continue
			}
			if len(sub) == 0 {
				out[key] = member
				continue
			}
			out[key] = sub.apply(member)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = t.apply(item)
		}
		return out
	default:
		return v
	}
}
