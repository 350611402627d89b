package asana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// Get fetches the object of model T identified by gid.
//
//	user, err := asana.Get[User](ctx, client, "me")
//	task, err := asana.Get[Task](ctx, asana.From[Project](client, "42"), "7")
func Get[T Model](ctx context.Context, s Scope, gid string, opts ...RequestOption) (T, error) {
	var out T
	d := descriptorOf[T]()

	raw, err := GetRaw(ctx, s, d, gid, opts...)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &DecodeError{Resource: d.Resource(), Err: err}
	}
	return out, nil
}

// List fetches the collection of model T, in the order returned by the API.
// Only the first page is returned.
//
//	sections, err := asana.List[Section](ctx, asana.From[Project](client, "42"))
func List[T Model](ctx context.Context, s Scope, opts ...RequestOption) ([]T, error) {
	d := descriptorOf[T]()

	items, err := ListRaw(ctx, s, d, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, &DecodeError{Resource: d.Resource(), Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return out, nil
}

// GetRaw fetches one object described by d without decoding it.
func GetRaw(ctx context.Context, s Scope, d Descriptor, gid string, opts ...RequestOption) (json.RawMessage, error) {
	if err := errUndefined(d); err != nil {
		return nil, err
	}
	if gid == "" {
		return nil, fmt.Errorf("gid is required to get %s", d.Resource())
	}

	c, parent, err := s.scope()
	if err != nil {
		return nil, err
	}
	query, err := buildQuery(d, opts)
	if err != nil {
		return nil, err
	}

	raw, err := c.getData(ctx, resourcePath(parent, d.Resource(), gid), query)
	if err != nil {
		return nil, err
	}
	if c.strictFields {
		if err := checkFields(d, raw); err != nil {
			return nil, &DecodeError{Resource: d.Resource(), Err: err}
		}
	}
	return raw, nil
}

// ListRaw fetches the collection described by d without decoding the items.
func ListRaw(ctx context.Context, s Scope, d Descriptor, opts ...RequestOption) ([]json.RawMessage, error) {
	if err := errUndefined(d); err != nil {
		return nil, err
	}

	c, parent, err := s.scope()
	if err != nil {
		return nil, err
	}
	query, err := buildQuery(d, opts)
	if err != nil {
		return nil, err
	}

	raw, err := c.getData(ctx, resourcePath(parent, d.Resource(), ""), query)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &DecodeError{Resource: d.Resource(), Err: err}
	}
	if c.strictFields {
		for i, item := range items {
			if err := checkFields(d, item); err != nil {
				return nil, &DecodeError{Resource: d.Resource(), Err: fmt.Errorf("item %d: %w", i, err)}
			}
		}
	}
	return items, nil
}

// buildQuery assembles opt_fields and the per-call parameters.
func buildQuery(d Descriptor, opts []RequestOption) (url.Values, error) {
	options := &requestOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.limit < 0 || options.limit > 100 {
		return nil, fmt.Errorf("limit must be between 1 and 100, got %d", options.limit)
	}

	if _, ok := options.params["limit"]; ok {
		return nil, errors.New("limit is reserved: use WithLimit")
	}

	query := url.Values{}
	for k, v := range options.params {
		query.Set(k, v)
	}
	if limit := options.limitParam(); limit != "" {
		query.Set("limit", limit)
	}
	if fields := d.OptFields(); fields != "" {
		query.Set("opt_fields", fields)
	} else {
		query.Del("opt_fields")
	}
	return query, nil
}

// checkFields reports the first declared top-level field missing from obj.
func checkFields(d Descriptor, obj json.RawMessage) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(obj, &members); err != nil {
		return err
	}
	for _, key := range d.topLevelKeys() {
		if _, ok := members[key]; !ok {
			return fmt.Errorf("missing field %q", key)
		}
	}
	return nil
}
