package api

import (
	"net/url"
	"strings"
)

type (
	// QueryParam is a single key=value pair of a query string
	QueryParam struct {
		Key   string
		Value string
	}

	// Query is an ordered list of query parameters
	Query []QueryParam

	// ArtifactsQuery holds the parameters of the latest artifacts endpoint
	ArtifactsQuery struct {
		Branch string
	}

	// TriggerBody is the payload of a pipeline trigger. Empty fields are
	// left out of the JSON document.
	TriggerBody struct {
		Branch string `json:"branch,omitempty"`
		Tag    string `json:"tag,omitempty"`
	}
)

// Add returns q with key=value appended
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Encode joins the parameters in insertion order. Values are query escaped.
func (q Query) Encode() string {
	pairs := make([]string, len(q))
	for i, p := range q {
		pairs[i] = p.Key + "=" + url.QueryEscape(p.Value)
	}
	return strings.Join(pairs, "&")
}

func (a ArtifactsQuery) query() Query {
	return Query{}.Add("branch", a.Branch)
}
