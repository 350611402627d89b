package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asanakit/asanakit/internal/api"
	"github.com/asanakit/asanakit/internal/api/fixture"
	"github.com/asanakit/asanakit/internal/api/response"
	"github.com/asanakit/asanakit/pkg/asana"
	"github.com/asanakit/asanakit/pkg/asana/models"
)

const testFixtures = `{
	"users/me": {"gid": "1", "resource_type": "user", "name": "Alice", "email": "alice@example.com", "photo": null},
	"workspaces": [{"gid": "10", "resource_type": "workspace", "name": "Acme", "is_organization": true}],
	"projects/20/sections": [
		{"gid": "31", "resource_type": "section", "name": "Backlog", "created_at": "2024-01-01T00:00:00.000Z"},
		{"gid": "32", "resource_type": "section", "name": "Doing", "created_at": "2024-01-02T00:00:00.000Z"},
		{"gid": "33", "resource_type": "section", "name": "Done", "created_at": "2024-01-03T00:00:00.000Z"}
	],
	"sections/32/tasks": [
		{
			"gid": "40", "resource_type": "task", "name": "Ship it", "completed": false, "notes": "",
			"due_on": "2024-02-01", "permalink_url": "https://app.asana.com/0/20/40", "html_notes": "<body></body>",
			"assignee": {"gid": "1", "resource_type": "user", "name": "Alice", "email": "alice@example.com"},
			"projects": [{"gid": "20", "resource_type": "project", "name": "Launch", "color": "red"}],
			"memberships": [{"project": {"gid": "20", "name": "Launch"}, "section": {"gid": "32", "name": "Doing"}}]
		}
	]
}`

func newTestServer(t *testing.T) (*httptest.Server, *asana.Client) {
	t.Helper()
	fixtures, err := fixture.Parse([]byte(testFixtures))
	if err != nil {
		t.Fatalf("failed to parse fixtures: %v", err)
	}

	server := httptest.NewServer(api.NewRouter(fixtures, api.WithToken("test-token")))
	t.Cleanup(server.Close)

	client, err := asana.Connect("test-token", asana.WithBaseURL(server.URL+api.BasePath))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return server, client
}

func TestRouter_GetUser(t *testing.T) {
	_, client := newTestServer(t)

	me, err := asana.Get[models.User](context.Background(), client, "me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.GID != "1" || me.Name != "Alice" || me.Email != "alice@example.com" {
		t.Errorf("unexpected user %+v", me)
	}
}

func TestRouter_ScopedList(t *testing.T) {
	_, client := newTestServer(t)

	sections, err := asana.List[models.Section](context.Background(), asana.From[models.Project](client, "20"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Backlog", "Doing", "Done"}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(sections))
	}
	for i, name := range want {
		if sections[i].Name != name {
			t.Errorf("section %d: expected %q, got %q", i, name, sections[i].Name)
		}
	}
}

func TestRouter_Limit(t *testing.T) {
	_, client := newTestServer(t)

	sections, err := asana.List[models.Section](context.Background(),
		asana.From[models.Project](client, "20"), asana.WithLimit(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(sections))
	}
}

func TestRouter_TaskWithRelations(t *testing.T) {
	_, client := newTestServer(t)

	tasks, err := asana.List[models.Task](context.Background(), asana.From[models.Section](client, "32"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	task := tasks[0]
	if task.Assignee == nil || task.Assignee.Name != "Alice" {
		t.Errorf("unexpected assignee %+v", task.Assignee)
	}
	if task.DueOn == nil || *task.DueOn != "2024-02-01" {
		t.Errorf("unexpected due date %v", task.DueOn)
	}
	if len(task.Memberships) != 1 || task.Memberships[0].Section == nil || task.Memberships[0].Section.GID != "32" {
		t.Errorf("unexpected memberships %+v", task.Memberships)
	}
}

func TestRouter_ProjectsOptFields(t *testing.T) {
	server, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/sections/32/tasks?opt_fields=name,assignee.email", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 task, got %d", len(body.Data))
	}

	task := body.Data[0]
	if _, ok := task["html_notes"]; ok {
		t.Error("expected unrequested field to be dropped")
	}
	assignee, _ := task["assignee"].(map[string]interface{})
	if assignee["email"] != "alice@example.com" {
		t.Errorf("expected assignee email, got %v", assignee)
	}
	if _, ok := assignee["name"]; ok {
		t.Error("expected assignee name to be dropped")
	}
}

func TestRouter_NotFound(t *testing.T) {
	_, client := newTestServer(t)

	_, err := asana.Get[models.User](context.Background(), client, "2")
	if !asana.IsNotFound(err) {
		t.Errorf("expected not found for unknown user, got %v", err)
	}

	_, err = asana.List[models.Task](context.Background(), asana.From[models.Project](client, "99"))
	if !asana.IsNotFound(err) {
		t.Errorf("expected not found for unknown listing, got %v", err)
	}

	// An object fixture does not answer a list request.
	_, err = asana.Get[models.Workspace](context.Background(), client, "10")
	if !asana.IsNotFound(err) {
		t.Errorf("expected not found for object lookup in list fixture, got %v", err)
	}
}

func TestRouter_Unauthorized(t *testing.T) {
	server, _ := newTestServer(t)

	client, _ := asana.Connect("wrong-token", asana.WithBaseURL(server.URL))
	_, err := asana.Get[models.User](context.Background(), client, "me")
	if !asana.IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestRouter_InvalidLimit(t *testing.T) {
	server, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/workspaces?limit=0", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	var body response.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Message == "" {
		t.Errorf("expected one error message, got %+v", body.Errors)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	server, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/users/me", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}
