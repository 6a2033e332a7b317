package task

import (
	"fmt"
	"strings"
)

// Task selects the single API operation an invocation performs
type Task int

const (
	GetAllPipelines Task = iota
	GetLatestArtifacts
	GetMe
	ListAll
	Trigger
)

// Field names a config value a Task may require
type Field string

const (
	FieldProject Field = "project"
	FieldBranch  Field = "branch"
)

var names = [...]string{
	GetAllPipelines:    "get_all_pipelines",
	GetLatestArtifacts: "get_latest_artifacts",
	GetMe:              "get_me",
	ListAll:            "list_all",
	Trigger:            "trigger",
}

var required = map[Task][]Field{
	GetAllPipelines:    {FieldProject},
	GetLatestArtifacts: {FieldProject, FieldBranch},
	Trigger:            {FieldProject},
}

// ParseError is returned for a task name that is not recognized
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Unknown Task %q", e.Value)
}

// Parse returns the Task for name, ignoring case
func Parse(name string) (Task, error) {
	lower := strings.ToLower(name)
	for t, keyword := range names {
		if keyword == lower {
			return Task(t), nil
		}
	}
	return 0, &ParseError{Value: name}
}

// Names lists the accepted task keywords in declaration order
func Names() []string {
	return append([]string(nil), names[:]...)
}

func (t Task) String() string {
	if t < 0 || int(t) >= len(names) {
		return fmt.Sprintf("Task(%d)", int(t))
	}
	return names[t]
}

// Required returns the config fields that must be present to run t
func (t Task) Required() []Field {
	return required[t]
}
