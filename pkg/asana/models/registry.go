package models

import (
	"sort"
	"strings"

	"github.com/asanakit/asanakit/pkg/asana"
)

var registry = map[string]asana.Descriptor{
	workspaceModel.Resource(): workspaceModel,
	userModel.Resource():      userModel,
	projectModel.Resource():   projectModel,
	sectionModel.Resource():   sectionModel,
	tagModel.Resource():       tagModel,
	taskModel.Resource():      taskModel,
}

// Lookup returns the descriptor registered for a resource name. Singular
// names and any letter case are accepted ("Task" finds "tasks").
func Lookup(name string) (asana.Descriptor, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if d, ok := registry[name]; ok {
		return d, true
	}
	d, ok := registry[name+"s"]
	return d, ok
}

// Kinds returns the registered resource names, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
