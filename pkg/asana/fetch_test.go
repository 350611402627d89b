package asana

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := Connect("test-token", append([]ClientOption{WithBaseURL(server.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestGet(t *testing.T) {
	var gotPath, gotFields string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("opt_fields")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"name": "Alice"}}`))
	})

	user, err := Get[testUser](context.Background(), client, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user != (testUser{Name: "Alice"}) {
		t.Errorf("expected User{Name: Alice}, got %+v", user)
	}
	if gotPath != "/users/1" {
		t.Errorf("expected path /users/1, got %s", gotPath)
	}
	if gotFields != "name,email" {
		t.Errorf("expected opt_fields 'name,email', got %q", gotFields)
	}
}

func TestList_PreservesOrder(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"data": [{"name": "A"}, {"name": "B"}]}`))
	})

	tasks, err := List[testTask](context.Background(), client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/tasks" {
		t.Errorf("expected path /tasks, got %s", gotPath)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Name != "A" || tasks[1].Name != "B" {
		t.Errorf("expected [A B], got [%s %s]", tasks[0].Name, tasks[1].Name)
	}
}

func TestList_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	})

	users, err := List[testUser](context.Background(), client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected no users, got %d", len(users))
	}
}

func TestFrom_Paths(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Client) error
		wantPath string
	}{
		{
			name: "scoped get",
			call: func(c *Client) error {
				_, err := Get[testTask](context.Background(), From[testProject](c, "42"), "7")
				return err
			},
			wantPath: "/projects/42/tasks/7",
		},
		{
			name: "scoped list",
			call: func(c *Client) error {
				_, err := List[testTask](context.Background(), From[testProject](c, "42"))
				return err
			},
			wantPath: "/projects/42/tasks",
		},
		{
			name: "untyped scope",
			call: func(c *Client) error {
				_, err := List[testProject](context.Background(), FromResource(c, "workspaces", "9"))
				return err
			},
			wantPath: "/workspaces/9/projects",
		},
		{
			name: "from on query replaces scope",
			call: func(c *Client) error {
				q := From[testUser](From[testProject](c, "42"), "me")
				_, err := List[testTask](context.Background(), q)
				return err
			},
			wantPath: "/users/me/tasks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				if strings.HasSuffix(r.URL.Path, "s") {
					w.Write([]byte(`{"data": []}`))
					return
				}
				w.Write([]byte(`{"data": {"gid": "7"}}`))
			})

			if err := tt.call(client); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("expected path %s, got %s", tt.wantPath, gotPath)
			}
		})
	}
}

func TestQuery_Reusable(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"data": []}`))
	})

	q := From[testProject](client, "42")
	for i := 0; i < 2; i++ {
		if _, err := List[testTask](context.Background(), q); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := List[testProject](context.Background(), client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/projects/42/tasks", "/projects/42/tasks", "/projects"}
	if strings.Join(paths, " ") != strings.Join(want, " ") {
		t.Errorf("expected paths %v, got %v", want, paths)
	}
	if q.Parent() != "projects/42" {
		t.Errorf("expected parent projects/42, got %s", q.Parent())
	}
}

func TestGet_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors": [{"message": "task: Unknown object: 999", "help": "See docs"}]}`))
	})

	task, err := Get[testTask](context.Background(), client, "999")
	if err == nil {
		t.Fatalf("expected error, got %+v", task)
	}
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", StatusCode(err))
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(apiErr.Messages) != 1 || apiErr.Messages[0] != "task: Unknown object: 999" {
		t.Errorf("unexpected messages: %v", apiErr.Messages)
	}
	if apiErr.Help != "See docs" {
		t.Errorf("expected help 'See docs', got %q", apiErr.Help)
	}
}

func TestList_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	tasks, err := List[testTask](context.Background(), From[testProject](client, "1"))
	if err == nil {
		t.Fatalf("expected error, got %v", tasks)
	}
	if tasks != nil {
		t.Errorf("expected nil result on error, got %v", tasks)
	}
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestFetch_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checker func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"errors":[{"message":"Not Authorized"}]}`, IsUnauthorized},
		{"forbidden", http.StatusForbidden, `{"errors":[{"message":"Forbidden"}]}`, IsForbidden},
		{"payment required", http.StatusPaymentRequired, `{"errors":[{"message":"Premium only"}]}`, IsPaymentRequired},
		{"rate limited", http.StatusTooManyRequests, `{"errors":[{"message":"Rate Limit Enforced"}]}`, IsRateLimited},
		{"server error", http.StatusInternalServerError, `<html>oops</html>`, IsServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := Get[testUser](context.Background(), client, "me")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.checker(err) {
				t.Errorf("expected checker to match, got %v", err)
			}
		})
	}
}

func TestFetch_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		list bool
	}{
		{"invalid json", `{"data": `, false},
		{"missing data", `{"errors": []}`, false},
		{"null data", `{"data": null}`, true},
		{"object for list", `{"data": {"name": "A"}}`, true},
		{"array for get", `{"data": [{"name": "A"}]}`, false},
		{"wrong field type", `{"data": [{"name": 42}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			var err error
			if tt.list {
				_, err = List[testUser](context.Background(), client)
			} else {
				_, err = Get[testUser](context.Background(), client, "1")
			}
			if err == nil {
				t.Fatal("expected decode error, got nil")
			}
			if !IsDecodeError(err) {
				t.Errorf("expected decode error, got %T: %v", err, err)
			}
		})
	}
}

func TestFetch_AbsentFieldPolicy(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"gid": "1", "name": "Alice", "email": "a@example.com"}, {"gid": "2", "name": "Bob"}]}`))
	}

	lenient := newTestClient(t, handler)
	users, err := List[testUser](context.Background(), lenient)
	if err != nil {
		t.Fatalf("expected lenient decode, got %v", err)
	}
	if users[1].Email != "" {
		t.Errorf("expected zero email for absent field, got %q", users[1].Email)
	}

	strict := newTestClient(t, handler, WithStrictFields())
	_, err = List[testUser](context.Background(), strict)
	if !IsDecodeError(err) {
		t.Fatalf("expected decode error in strict mode, got %v", err)
	}
	if !strings.Contains(err.Error(), `item 1: missing field "email"`) {
		t.Errorf("expected missing email on item 1, got %q", err.Error())
	}
}

func TestFetch_RequestOptions(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"data": []}`))
	})

	_, err := List[testProject](context.Background(), client,
		WithLimit(50),
		WithParam("workspace", "123"),
		WithParam("opt_fields", "everything"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{"limit": "50", "workspace": "123", "opt_fields": "name"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("expected %s=%q, got %q", k, v, gotQuery[k])
		}
	}
}

func TestFetch_InvalidLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	for _, limit := range []int{-1, 101} {
		if _, err := List[testUser](context.Background(), client, WithLimit(limit)); err == nil {
			t.Errorf("expected error for limit %d", limit)
		}
	}
}

func TestGet_EmptyGID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	if _, err := Get[testUser](context.Background(), client, ""); err == nil {
		t.Error("expected error for empty gid")
	}
}

func TestFetch_GIDIsEscaped(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"data": {}}`))
	})

	if _, err := Get[testUser](context.Background(), client, "a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/users/a%2Fb" {
		t.Errorf("expected escaped gid, got %s", gotPath)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data": {}}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := Get[testUser](ctx, client, "1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	client, _ := Connect("t", WithBaseURL("http://"+addr))
	_, err = Get[testUser](context.Background(), client, "me")
	if !IsUnreachable(err) {
		t.Errorf("expected unreachable error, got %v", err)
	}
}

func TestFetch_PointerModels(t *testing.T) {
	var gotPaths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		switch r.URL.Path {
		case "/users":
			w.Write([]byte(`{"data": [{"name": "A"}, {"name": "B"}]}`))
			return
		case "/users/1/tasks":
			w.Write([]byte(`{"data": []}`))
			return
		}
		w.Write([]byte(`{"data": {"name": "Alice"}}`))
	})

	user, err := Get[*testUser](context.Background(), client, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.Name != "Alice" {
		t.Errorf("expected Alice, got %+v", user)
	}

	users, err := List[*testUser](context.Background(), client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].Name != "A" || users[1].Name != "B" {
		t.Errorf("unexpected users %+v", users)
	}

	tasks, err := List[*testTask](context.Background(), From[*testUser](client, "1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}

	want := []string{"/users/1", "/users", "/users/1/tasks"}
	if strings.Join(gotPaths, " ") != strings.Join(want, " ") {
		t.Errorf("expected paths %v, got %v", want, gotPaths)
	}
}

func TestFetch_UndefinedModel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	ctx := context.Background()

	if _, err := Get[Model](ctx, client, "1"); err == nil {
		t.Error("expected error for interface model type")
	}
	if _, err := List[Model](ctx, client); err == nil {
		t.Error("expected error for interface model type")
	}
	if _, err := ListRaw(ctx, client, Descriptor{}); err == nil {
		t.Error("expected error for zero descriptor")
	}
	if _, err := List[testTask](ctx, From[Model](client, "1")); err == nil {
		t.Error("expected error for scope without resource")
	}
}

func TestFrom_EmptyGID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := List[testTask](context.Background(), From[testProject](client, ""))
	if err == nil || !strings.Contains(err.Error(), "gid is required") {
		t.Errorf("expected gid error, got %v", err)
	}
}

func TestFetch_LimitParamReserved(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	for _, value := range []string{"500", "10"} {
		_, err := List[testUser](context.Background(), client, WithParam("limit", value))
		if err == nil || !strings.Contains(err.Error(), "WithLimit") {
			t.Errorf("limit=%s: expected reserved parameter error, got %v", value, err)
		}
	}
}
