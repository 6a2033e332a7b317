package model

import "encoding/json"

type (
	// Project is a followed repository as reported by the v1.1 API
	Project struct {
		VCSURL    string            `json:"vcs_url"`
		Following bool              `json:"following"`
		Username  string            `json:"username"`
		RepoName  string            `json:"reponame"`
		Branches  map[string]Branch `json:"branches"`
	}

	// Branch holds the build summary of one branch of a Project
	Branch struct {
		PusherLogins   []string `json:"pusher_logins"`
		LastNonSuccess *Build   `json:"last_non_success,omitempty"`
		LastSuccess    *Build   `json:"last_success,omitempty"`
		RecentBuilds   []Build  `json:"recent_builds"`
		RunningBuilds  []Build  `json:"running_builds"`
	}

	Build struct {
		PushedAt    string `json:"pushed_at"`
		VCSRevision string `json:"vcs_revision"`
		BuildNum    int    `json:"build_num"`
		Outcome     string `json:"outcome"`
	}

	// Artifact is a file produced by a build
	Artifact struct {
		Path       string `json:"path"`
		PrettyPath string `json:"pretty_path"`
		NodeIndex  int    `json:"node_index"`
		URL        string `json:"url"`
	}
)

// UnmarshalJSON decodes a Branch. Absent lists decode as empty, not nil.
func (b *Branch) UnmarshalJSON(data []byte) error {
	type branch Branch
	decoded := branch{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	if decoded.PusherLogins == nil {
		decoded.PusherLogins = []string{}
	}
	if decoded.RecentBuilds == nil {
		decoded.RecentBuilds = []Build{}
	}
	if decoded.RunningBuilds == nil {
		decoded.RunningBuilds = []Build{}
	}

	*b = Branch(decoded)
	return nil
}
