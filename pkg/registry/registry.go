// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

func New(version string) *Catalog {
	return &Catalog{Version: version}
}

// Register adds a. Task types are unique and the category is the task
// type's first dotted segment when not set.
func (c *Catalog) Register(a Activity) error {
	if strings.TrimSpace(a.TaskType) == "" {
		return fmt.Errorf("activity task type is required")
	}
	if _, ok := c.Lookup(a.TaskType); ok {
		return fmt.Errorf("activity %q already registered", a.TaskType)
	}
	if a.Category == "" {
		a.Category, _, _ = strings.Cut(a.TaskType, ".")
	}
	c.Activities = append(c.Activities, a)
	sort.SliceStable(c.Activities, func(i, j int) bool {
		return c.Activities[i].TaskType < c.Activities[j].TaskType
	})
	return nil
}

// MustRegister is Register for static catalogs.
func (c *Catalog) MustRegister(activities ...Activity) *Catalog {
	for _, a := range activities {
		if err := c.Register(a); err != nil {
			panic(err)
		}
	}
	return c
}

func (c *Catalog) Lookup(taskType string) (Activity, bool) {
	for _, a := range c.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// ByCategory returns the activities of one category in task type order.
func (c *Catalog) ByCategory(category string) []Activity {
	var out []Activity
	for _, a := range c.Activities {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
