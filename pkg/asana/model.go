package asana

import (
	"errors"
	"reflect"
	"strings"
)

// Model is implemented by every struct that can be fetched from the API.
//
// Get and List call Descriptor on a zero value of the type to learn the
// endpoint and field selection. For a pointer type argument such as *User
// the zero value is a new User, so both Get[User] and Get[*User] work.
type Model interface {
	Descriptor() Descriptor
}

// Resource holds the two fields Asana returns for every object regardless of
// field selection. Embed it in model structs.
type Resource struct {
	GID          string `json:"gid"`
	ResourceType string `json:"resource_type"`
}

// Descriptor is the static metadata of a model: the resource path segment, the
// fields to request and any embedded relations. Descriptors are values; the
// builder methods return modified copies and never mutate the receiver.
type Descriptor struct {
	resource  string
	fields    []string
	relations []Relation
}

// Relation embeds another model's fields under a field of the parent.
type Relation struct {
	Field string
	Model Descriptor
}

// Define declares a model descriptor for the given resource path segment
// ("users", "projects", ...). Repeated field names are kept once, at their
// first position. Define panics if resource is empty.
//
//	var userModel = asana.Define("users", "name", "email")
//
//	func (User) Descriptor() asana.Descriptor { return userModel }
func Define(resource string, fields ...string) Descriptor {
	if strings.TrimSpace(resource) == "" {
		panic("asana: Define called with empty resource name")
	}
	return Descriptor{
		resource: resource,
		fields:   appendUnique(nil, fields...),
	}
}

// Include embeds each child under a field named after the child's resource,
// so Define("tasks", "name").Include(projects) selects "projects.<field>".
// Include panics if a child was not built with Define.
func (d Descriptor) Include(children ...Descriptor) Descriptor {
	out := d.clone()
	for _, child := range children {
		if child.resource == "" {
			panic("asana: Include called with an undefined descriptor")
		}
		out.relations = append(out.relations, Relation{Field: child.resource, Model: child})
	}
	return out
}

// IncludeAs embeds child under an explicit field name, for relations whose
// JSON key differs from the child's resource (an "assignee" is a user).
// IncludeAs panics if field is empty.
func (d Descriptor) IncludeAs(field string, child Descriptor) Descriptor {
	if strings.TrimSpace(field) == "" {
		panic("asana: IncludeAs called with empty field name")
	}
	out := d.clone()
	out.relations = append(out.relations, Relation{Field: field, Model: child})
	return out
}

// Resource returns the path segment of the model.
func (d Descriptor) Resource() string {
	return d.resource
}

// Relations returns the embedded relations in declaration order.
func (d Descriptor) Relations() []Relation {
	return append([]Relation(nil), d.relations...)
}

// Fields returns the flattened field selection: the model's own fields
// followed by each relation's fields qualified as "relation.field". Nested
// relations are qualified recursively. A relation without fields of its own
// contributes its bare name.
func (d Descriptor) Fields() []string {
	return d.flatten("", nil)
}

// OptFields returns Fields joined into the value of the opt_fields parameter.
func (d Descriptor) OptFields() string {
	return strings.Join(d.Fields(), ",")
}

func (d Descriptor) flatten(prefix string, acc []string) []string {
	for _, f := range d.fields {
		acc = appendUnique(acc, prefix+f)
	}
	for _, rel := range d.relations {
		qualified := prefix + rel.Field
		if len(rel.Model.fields) == 0 && len(rel.Model.relations) == 0 {
			acc = appendUnique(acc, qualified)
			continue
		}
		acc = rel.Model.flatten(qualified+".", acc)
	}
	return acc
}

// topLevelKeys returns the JSON keys a response object must carry: own
// fields and relation names.
func (d Descriptor) topLevelKeys() []string {
	keys := appendUnique(nil, d.fields...)
	for _, rel := range d.relations {
		keys = appendUnique(keys, rel.Field)
	}
	return keys
}

func (d Descriptor) clone() Descriptor {
	return Descriptor{
		resource:  d.resource,
		fields:    append([]string(nil), d.fields...),
		relations: append([]Relation(nil), d.relations...),
	}
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v == "" || contains(dst, v) {
			continue
		}
		dst = append(dst, v)
	}
	return dst
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// descriptorOf returns the descriptor of model type T. Pointer model types
// are resolved through a fresh element so value-receiver Descriptor
// methods never see a nil pointer. An interface type argument yields the
// zero Descriptor.
func descriptorOf[T Model]() Descriptor {
	var zero T
	t := reflect.TypeOf(zero)
	switch {
	case t == nil:
		return Descriptor{}
	case t.Kind() == reflect.Pointer:
		m, ok := reflect.New(t.Elem()).Interface().(Model)
		if !ok {
			return Descriptor{}
		}
		return m.Descriptor()
	default:
		return zero.Descriptor()
	}
}

// errUndefined is returned when a fetch is given a descriptor that was not
// built with Define.
func errUndefined(d Descriptor) error {
	if d.resource == "" {
		return errors.New("asana: model has no descriptor; declare it with Define")
	}
	return nil
}
