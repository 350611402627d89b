// Package asana provides a typed Go client for the Asana REST API.
//
// The API returns objects whose shape depends on the fields requested with
// opt_fields, so the package does not ship a fixed schema. Instead callers
// declare the structs they want back, each paired with a Descriptor naming
// the endpoint and the fields to request. The same declaration drives the
// request and the decoding, which keeps the package usable with objects
// Asana adds in the future. Common declarations live in the models
// subpackage.
//
// # Getting Started
//
// Create a client with a personal access token:
//
//	client, err := asana.Connect(os.Getenv("ASANA_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Declaring Models
//
// A model is a struct with json tags plus a Descriptor method on a value
// receiver. Either User or *User may be passed as the type argument. Embed asana.Resource to get gid and resource_type, which the API
// always returns:
//
//	var userModel = asana.Define("users", "name", "email")
//
//	type User struct {
//	    asana.Resource
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	}
//
//	func (User) Descriptor() asana.Descriptor { return userModel }
//
// Relations are plain struct fields whose descriptors are included in the
// parent's. Their fields are requested as "relation.field":
//
//	var projectModel = asana.Define("projects", "name")
//
//	var taskModel = asana.Define("tasks", "name", "completed").
//	    Include(projectModel).               // projects.name
//	    IncludeAs("assignee", userModel)     // assignee.name, assignee.email
//
//	type Task struct {
//	    asana.Resource
//	    Name      string    `json:"name"`
//	    Completed bool      `json:"completed"`
//	    Projects  []Project `json:"projects"`
//	    Assignee  *User     `json:"assignee"`
//	}
//
// Fields that may be null should be pointers.
//
// # Fetching
//
// Get one object, or list a collection:
//
//	me, err := asana.Get[User](ctx, client, "me")
//	projects, err := asana.List[Project](ctx, client, asana.WithParam("workspace", wsGID))
//
// Scope a fetch to the children of a parent object:
//
//	sections, err := asana.List[Section](ctx, asana.From[Project](client, projectGID))
//	tasks, err := asana.List[Task](ctx, asana.From[Section](client, sectionGID))
//
// Each call is a single request. Use the context for cancellation and
// deadlines; the client never retries.
//
// # Error Handling
//
//	task, err := asana.Get[Task](ctx, client, gid)
//	if err != nil {
//	    if asana.IsNotFound(err) {
//	        // No such task
//	    } else if asana.IsRateLimited(err) {
//	        // Back off and try later
//	    } else if asana.IsDecodeError(err) {
//	        // Response did not match Task
//	    }
//	}
//
// Declared fields missing from a response keep their zero value. Pass
// WithStrictFields to NewClient to treat them as decode errors instead.
//
// # Configuration Options
//
//	asana.WithToken(token)           // Personal access token
//	asana.WithTokenSource(ts)        // Any oauth2.TokenSource
//	asana.WithBaseURL(url)           // Default: https://app.asana.com/api/1.0
//	asana.WithTimeout(duration)      // Default: 30s
//	asana.WithHTTPClient(hc)         // Custom *http.Client
//	asana.WithLogger(logger)         // *zap.Logger, requests at debug level
//	asana.WithStrictFields()         // Fail on absent declared fields
//
// Request options:
//
//	asana.WithLimit(n)               // Page size for List (1-100)
//	asana.WithParam(key, value)      // Extra query parameter
package asana
