package asana

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scope is anything a fetch can be issued from: a *Client for top-level
// endpoints, or a *Query for endpoints nested under a parent object.
type Scope interface {
	scope() (*Client, string, error)
}

func (c *Client) scope() (*Client, string, error) {
	return c, "", nil
}

// Query scopes fetches to the children of one parent object, as in
// /projects/{gid}/sections. It performs no I/O and is safe to reuse.
type Query struct {
	client *Client
	parent string
	err    error
}

func (q *Query) scope() (*Client, string, error) {
	return q.client, q.parent, q.err
}

// From scopes subsequent fetches to the children of the parent object of
// model P identified by gid.
//
//	sections, err := asana.List[Section](ctx, asana.From[Project](client, "1234"))
//
// Calling From on a *Query replaces its scope; the API nests only one level.
func From[P Model](s Scope, gid string) *Query {
	return FromResource(s, descriptorOf[P]().Resource(), gid)
}

// FromResource is the untyped form of From, scoping by resource name.
// An empty resource or gid is reported by the fetch that uses the Query.
func FromResource(s Scope, resource, gid string) *Query {
	c, _, err := s.scope()
	q := &Query{
		client: c,
		parent: joinPath(resource, url.PathEscape(gid)),
		err:    err,
	}
	switch {
	case q.err != nil:
	case strings.TrimSpace(resource) == "":
		q.err = errors.New("asana: parent scope has no resource")
	case gid == "":
		q.err = fmt.Errorf("gid is required to scope to %s", resource)
	}
	return q
}

// Parent returns the path prefix of the scope, e.g. "projects/1234".
func (q *Query) Parent() string {
	return q.parent
}

// resourcePath builds [parent/]resource[/gid].
func resourcePath(parent, resource, gid string) string {
	return joinPath(parent, resource, url.PathEscape(gid))
}

func joinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
