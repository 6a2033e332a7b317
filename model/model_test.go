package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectMissingBranchListsDecodeEmpty(t *testing.T) {
	body := `{
		"vcs_url": "https://github.com/MeinDach/repoA",
		"following": true,
		"username": "MeinDach",
		"reponame": "repoA",
		"branches": {"main": {}}
	}`

	project := Project{}
	require.NoError(t, json.Unmarshal([]byte(body), &project))

	main, ok := project.Branches["main"]
	require.True(t, ok)
	assert.NotNil(t, main.PusherLogins)
	assert.Empty(t, main.PusherLogins)
	assert.NotNil(t, main.RecentBuilds)
	assert.Empty(t, main.RecentBuilds)
	assert.NotNil(t, main.RunningBuilds)
	assert.Empty(t, main.RunningBuilds)
	assert.Nil(t, main.LastSuccess)
	assert.Nil(t, main.LastNonSuccess)
	assert.Equal(t, "repoA", project.RepoName)
}

func TestProjectBranchWithBuilds(t *testing.T) {
	body := `{
		"vcs_url": "https://github.com/MeinDach/repoA",
		"following": false,
		"username": "MeinDach",
		"reponame": "repoA",
		"branches": {
			"main": {
				"pusher_logins": ["octocat"],
				"last_success": {"pushed_at": "2020-01-01T00:00:00Z", "vcs_revision": "abc123", "build_num": 42, "outcome": "success"},
				"recent_builds": [{"pushed_at": "2020-01-01T00:00:00Z", "vcs_revision": "abc123", "build_num": 42, "outcome": "success"}]
			}
		}
	}`

	project := Project{}
	require.NoError(t, json.Unmarshal([]byte(body), &project))

	main := project.Branches["main"]
	assert.Equal(t, []string{"octocat"}, main.PusherLogins)
	require.NotNil(t, main.LastSuccess)
	assert.Equal(t, 42, main.LastSuccess.BuildNum)
	assert.Len(t, main.RecentBuilds, 1)
	assert.Empty(t, main.RunningBuilds)
}

func TestBranchRejectsWrongTypes(t *testing.T) {
	branch := Branch{}
	err := json.Unmarshal([]byte(`{"recent_builds": "nope"}`), &branch)
	assert.Error(t, err)
}

func TestPipelineListDecodesNestedShapes(t *testing.T) {
	body := `{
		"items": [{
			"id": "5034460f-c7c4-4c43-9457-de07e2029e7b",
			"errors": [{"type": "config", "message": "bad config"}],
			"project_slug": "gh/MeinDach/repoA",
			"updated_at": "2020-01-02T00:00:00Z",
			"number": 7,
			"state": "created",
			"created_at": "2020-01-01T00:00:00Z",
			"trigger": {"type": "webhook", "received_at": "2020-01-01T00:00:00Z", "actor": {"login": "octocat", "avatar_url": "https://example.com/a.png"}},
			"vcs": {"provider_name": "GitHub", "origin_repository_url": "https://github.com/MeinDach/repoA", "target_repository_url": "https://github.com/MeinDach/repoA", "revision": "abc123", "branch": "main", "tag": "", "commit": {"subject": "fix", "body": ""}}
		}],
		"next_page_token": "token-2"
	}`

	list := PipelineList{}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Items, 1)

	p := list.Items[0]
	assert.Equal(t, 7, p.Number)
	assert.Equal(t, "config", p.Errors[0].Type)
	assert.Equal(t, "octocat", p.Trigger.Actor.Login)
	assert.Equal(t, "main", p.VCS.Branch)
	assert.Equal(t, "fix", p.VCS.Commit.Subject)
	assert.Equal(t, "token-2", list.NextPageToken)
}

func TestDecodeUser(t *testing.T) {
	user, err := DecodeUser([]byte(`{"login":"octocat","id":583231,"name":"The Octocat"}`))
	require.NoError(t, err)
	assert.Equal(t, &User{Login: "octocat", ID: 583231}, user)

	_, err = DecodeUser([]byte(`[]`))
	assert.Error(t, err)
}
