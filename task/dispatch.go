package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AcalephStorage/circleci-cli/config"
	"github.com/AcalephStorage/circleci-cli/model"
	"github.com/AcalephStorage/circleci-cli/util"
)

var taskLog = util.NewContextLogger("task")

// Client is the set of API operations a Task can be dispatched to
type Client interface {
	GetMe() ([]byte, error)
	GetAllProjects() ([]model.Project, error)
	GetAllPipelines(project string) (*model.PipelineList, error)
	GetLatestArtifacts(project, branch string) ([]model.Artifact, error)
	TriggerBuildFor(project, branch, tag string) (*model.PipelineLight, error)
}

// MissingConfigError is returned when a Task is run without a config value
// it needs
type MissingConfigError struct {
	Task   Task
	Fields []Field
}

func (e *MissingConfigError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("task %s is missing required configuration: [%s]", e.Task, strings.Join(names, ", "))
}

// Dispatcher runs a Task against a Client using the effective config
type Dispatcher struct {
	Client Client
	Config *config.Config
}

// NewDispatcher returns a Dispatcher for the given client and config
func NewDispatcher(client Client, cfg *config.Config) *Dispatcher {
	return &Dispatcher{Client: client, Config: cfg}
}

// Validate checks that every field t requires is present
func (d *Dispatcher) Validate(t Task) error {
	missing := []Field{}
	for _, f := range t.Required() {
		if d.value(f) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingConfigError{Task: t, Fields: missing}
	}
	return nil
}

// Dispatch performs the single API call t maps to and returns its result.
// The raw response of GetMe is returned as json.RawMessage.
func (d *Dispatcher) Dispatch(t Task) (interface{}, error) {
	log := taskLog.InFunc("Dispatch")

	if err := d.Validate(t); err != nil {
		return nil, err
	}

	var (
		result interface{}
		err    error
	)
	cfg := d.Config

	switch t {
	case GetAllPipelines:
		result, err = d.Client.GetAllPipelines(cfg.Project)
	case GetLatestArtifacts:
		result, err = d.Client.GetLatestArtifacts(cfg.Project, cfg.Branch)
	case GetMe:
		var body []byte
		body, err = d.Client.GetMe()
		result = json.RawMessage(body)
	case Trigger:
		result, err = d.Client.TriggerBuildFor(cfg.Project, cfg.Branch, cfg.Tag)
	case ListAll:
		result, err = d.Client.GetAllProjects()
	default:
		return nil, fmt.Errorf("unsupported task %s", t)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("%s", describe(result))
	return result, nil
}

func (d *Dispatcher) value(f Field) string {
	switch f {
	case FieldProject:
		return d.Config.Project
	case FieldBranch:
		return d.Config.Branch
	}
	return ""
}

func describe(result interface{}) string {
	if raw, ok := result.(json.RawMessage); ok {
		return string(raw)
	}
	out, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%+v", result)
	}
	return string(out)
}
