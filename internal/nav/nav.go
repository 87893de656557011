// Package nav builds destination paths and hands them to the routing
// collaborator. Routing itself is external to this service.
package nav

import "fmt"

const (
	LoginPath  = "/login"
	SignupPath = "/signup"
)

// Navigator performs routing to a destination path
type Navigator interface {
	Navigate(path string)
}

// LivePath returns the path of a live viewing page
func LivePath(liveID int64) string {
	return fmt.Sprintf("/live/%d", liveID)
}

// AgentPath returns the path of an agent profile page
func AgentPath(agentID int64) string {
	return fmt.Sprintf("/agent/%d", agentID)
}

// PropertyPath returns the path of a property detail page
func PropertyPath(propertyID int64) string {
	return fmt.Sprintf("/property/%d", propertyID)
}

// Recorder is a Navigator that records every destination, for tests and
// for surfacing navigation intents over the API
type Recorder struct {
	Paths []string
}

// Navigate appends path to the recorded destinations
func (r *Recorder) Navigate(path string) {
	r.Paths = append(r.Paths, path)
}
