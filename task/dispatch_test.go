package task

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AcalephStorage/circleci-cli/config"
	"github.com/AcalephStorage/circleci-cli/model"
)

type call struct {
	name string
	args []string
}

type MockClient struct {
	calls []call
	err   error
}

func (m *MockClient) record(name string, args ...string) {
	m.calls = append(m.calls, call{name, args})
}

func (m *MockClient) GetMe() ([]byte, error) {
	m.record("GetMe")
	return []byte(`{"login":"octocat","id":1}`), m.err
}

func (m *MockClient) GetAllProjects() ([]model.Project, error) {
	m.record("GetAllProjects")
	return []model.Project{{RepoName: "repoA"}}, m.err
}

func (m *MockClient) GetAllPipelines(project string) (*model.PipelineList, error) {
	m.record("GetAllPipelines", project)
	return &model.PipelineList{Items: []model.Pipeline{{Number: 1}}}, m.err
}

func (m *MockClient) GetLatestArtifacts(project, branch string) ([]model.Artifact, error) {
	m.record("GetLatestArtifacts", project, branch)
	return []model.Artifact{{Path: "out/report.html"}}, m.err
}

func (m *MockClient) TriggerBuildFor(project, branch, tag string) (*model.PipelineLight, error) {
	m.record("TriggerBuildFor", project, branch, tag)
	return &model.PipelineLight{Number: 2}, m.err
}

func TestDispatchCallsMatchingOperation(t *testing.T) {
	cfg := &config.Config{Token: "abc", Project: "repoA", Branch: "main", Tag: "v1"}
	cases := []struct {
		task     Task
		expected call
	}{
		{GetAllPipelines, call{"GetAllPipelines", []string{"repoA"}}},
		{GetLatestArtifacts, call{"GetLatestArtifacts", []string{"repoA", "main"}}},
		{GetMe, call{"GetMe", nil}},
		{Trigger, call{"TriggerBuildFor", []string{"repoA", "main", "v1"}}},
		{ListAll, call{"GetAllProjects", nil}},
	}

	for _, c := range cases {
		client := &MockClient{}
		result, err := NewDispatcher(client, cfg).Dispatch(c.task)
		require.NoError(t, err, c.task.String())
		assert.NotNil(t, result)
		assert.Equal(t, []call{c.expected}, client.calls, c.task.String())
	}
}

func TestDispatchScenarioArtifacts(t *testing.T) {
	cfg := config.Merge(&config.Config{Token: "abc", Project: "repoA"}, config.Args{Branch: "main"})
	client := &MockClient{}

	result, err := NewDispatcher(client, cfg).Dispatch(GetLatestArtifacts)
	require.NoError(t, err)
	assert.Equal(t, []model.Artifact{{Path: "out/report.html"}}, result)
	assert.Equal(t, []call{{"GetLatestArtifacts", []string{"repoA", "main"}}}, client.calls)
}

func TestDispatchGetMeReturnsRawBody(t *testing.T) {
	result, err := NewDispatcher(&MockClient{}, &config.Config{Token: "abc"}).Dispatch(GetMe)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"login":"octocat","id":1}`), result)
}

func TestDispatchTriggerWithoutBranchOrTag(t *testing.T) {
	client := &MockClient{}
	_, err := NewDispatcher(client, &config.Config{Token: "abc", Project: "repoA"}).Dispatch(Trigger)
	require.NoError(t, err)
	assert.Equal(t, []call{{"TriggerBuildFor", []string{"repoA", "", ""}}}, client.calls)
}

func TestDispatchMissingRequiredFields(t *testing.T) {
	client := &MockClient{}
	_, err := NewDispatcher(client, &config.Config{Token: "abc"}).Dispatch(GetLatestArtifacts)
	require.Error(t, err)

	missing, ok := err.(*MissingConfigError)
	require.True(t, ok)
	assert.Equal(t, GetLatestArtifacts, missing.Task)
	assert.Equal(t, []Field{FieldProject, FieldBranch}, missing.Fields)
	assert.Equal(t, "task get_latest_artifacts is missing required configuration: [project, branch]", err.Error())
	assert.Empty(t, client.calls)
}

func TestDispatchPropagatesClientError(t *testing.T) {
	client := &MockClient{err: errors.New("connection refused")}
	result, err := NewDispatcher(client, &config.Config{Token: "abc"}).Dispatch(ListAll)
	assert.EqualError(t, err, "connection refused")
	assert.Nil(t, result)
}

func TestDescribeRendersValuesNotAddresses(t *testing.T) {
	light := describe(&model.PipelineLight{ID: "p1", Number: 42})
	assert.Contains(t, light, `"number":42`)
	assert.NotContains(t, light, "0xc")

	list := describe(&model.PipelineList{Items: []model.Pipeline{{Number: 7}}})
	assert.Contains(t, list, `"number":7`)

	assert.Equal(t, `{"login":"octocat"}`, describe(json.RawMessage(`{"login":"octocat"}`)))
}
