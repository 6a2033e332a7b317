package model

// PipelineLight is returned when a pipeline is triggered
type PipelineLight struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Number    int    `json:"number"`
	CreatedAt string `json:"created_at"`
}

// PipelineList is a page of pipelines. NextPageToken is never followed.
type PipelineList struct {
	Items         []Pipeline `json:"items"`
	NextPageToken string     `json:"next_page_token"`
}

type Pipeline struct {
	ID          string          `json:"id"`
	Errors      []PipelineError `json:"errors"`
	ProjectSlug string          `json:"project_slug"`
	UpdatedAt   string          `json:"updated_at"`
	Number      int             `json:"number"`
	State       string          `json:"state"`
	CreatedAt   string          `json:"created_at"`
	Trigger     Trigger         `json:"trigger"`
	VCS         VCS             `json:"vcs"`
}

type PipelineError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Trigger struct {
	Type       string `json:"type"`
	ReceivedAt string `json:"received_at"`
	Actor      Actor  `json:"actor"`
}

type Actor struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type VCS struct {
	ProviderName        string `json:"provider_name"`
	OriginRepositoryURL string `json:"origin_repository_url"`
	TargetRepositoryURL string `json:"target_repository_url"`
	Revision            string `json:"revision"`
	Branch              string `json:"branch"`
	Tag                 string `json:"tag"`
	Commit              Commit `json:"commit"`
}

type Commit struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
