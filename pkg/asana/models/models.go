// Package models holds ready-made declarations for the common Asana
// objects. They request a useful default set of fields; declare your own
// models when you need more or fewer.
package models

import "github.com/asanakit/asanakit/pkg/asana"

var (
	workspaceModel = asana.Define("workspaces", "name", "is_organization")
	userModel      = asana.Define("users", "name", "email")
	projectModel   = asana.Define("projects", "name", "archived", "color", "notes")
	sectionModel   = asana.Define("sections", "name", "created_at")
	tagModel       = asana.Define("tags", "name", "color")
)

// membershipModel describes task memberships; it has no endpoint of its own.
var membershipModel = asana.Define("memberships").
	IncludeAs("project", asana.Define("projects", "name")).
	IncludeAs("section", asana.Define("sections", "name"))

var taskModel = asana.Define("tasks", "name", "notes", "completed", "due_on", "permalink_url").
	IncludeAs("assignee", userModel).
	Include(asana.Define("projects", "name")).
	Include(membershipModel)

// Workspace is an organization or workspace the user belongs to.
type Workspace struct {
	asana.Resource
	Name           string `json:"name"`
	IsOrganization bool   `json:"is_organization"`
}

func (Workspace) Descriptor() asana.Descriptor { return workspaceModel }

// User is an Asana account.
type User struct {
	asana.Resource
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (User) Descriptor() asana.Descriptor { return userModel }

// Project is a list or board of tasks.
type Project struct {
	asana.Resource
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
}

func (Project) Descriptor() asana.Descriptor { return projectModel }

// Section is a column or heading within a project.
type Section struct {
	asana.Resource
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (Section) Descriptor() asana.Descriptor { return sectionModel }

// Tag labels tasks across projects.
type Tag struct {
	asana.Resource
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (Tag) Descriptor() asana.Descriptor { return tagModel }

// Named is the compact form of an object embedded in another.
type Named struct {
	asana.Resource
	Name string `json:"name"`
}

// Membership places a task in a project section.
type Membership struct {
	Project *Named `json:"project"`
	Section *Named `json:"section"`
}

// Task is a unit of work.
type Task struct {
	asana.Resource
	Name         string       `json:"name"`
	Notes        string       `json:"notes"`
	Completed    bool         `json:"completed"`
	DueOn        *string      `json:"due_on"`
	PermalinkURL string       `json:"permalink_url"`
	Assignee     *User        `json:"assignee"`
	Projects     []Named      `json:"projects"`
	Memberships  []Membership `json:"memberships"`
}

func (Task) Descriptor() asana.Descriptor { return taskModel }
