// pkg/registry/schema.go
package registry

// Catalog describes the activities one deployment of the workflow runs.
type Catalog struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

type Activity struct {
	TaskType    string   `json:"taskType"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	// Routes are the HTTP routes that run the activity, if any.
	Routes     []string `json:"routes,omitempty"`
	ErrorCodes []string `json:"errorCodes,omitempty"`
	Timeout    string   `json:"timeout,omitempty"`
}
