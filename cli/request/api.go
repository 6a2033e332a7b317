package api

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/net/http2"

	"github.com/AcalephStorage/circleci-cli/model"
	"github.com/AcalephStorage/circleci-cli/util"
)

const (
	// LegacyAPIPath is the v1.1 API, authenticated with a query parameter
	LegacyAPIPath = "/api/v1.1"

	// CurrentAPIPath is the v2 API, authenticated with a header
	CurrentAPIPath = "/api/v2"

	// DefaultHost is the public CircleCI host
	DefaultHost = "https://circleci.com"

	// DefaultOwner owns every repository this client targets
	DefaultOwner = "MeinDach"

	// VCSGithub is the VCS type segment of project paths
	VCSGithub = "github"

	tokenParam  = "circle-token"
	tokenHeader = "Circle-Token"
)

var apiLog = util.NewContextLogger("cli/request")

type (
	// Client performs authenticated requests against the CircleCI API
	Client struct {
		HTTPClient *http.Client
		LegacyURL  string
		CurrentURL string
		Owner      string
		VCSType    string

		token string
	}

	// APIError is returned when the API answers with a non-2xx status
	APIError struct {
		StatusCode int    `json:"-"`
		Message    string `json:"message"`
	}
)

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// NewClient returns a Client for the public CircleCI host
func NewClient(token string) *Client {
	return NewClientForHost(DefaultHost, token)
}

// NewClientForHost returns a Client for a CircleCI installation at host
func NewClientForHost(host, token string) *Client {
	host = strings.TrimRight(host, "/")
	return &Client{
		HTTPClient: newHTTPClient(),
		LegacyURL:  host + LegacyAPIPath,
		CurrentURL: host + CurrentAPIPath,
		Owner:      DefaultOwner,
		VCSType:    VCSGithub,
		token:      token,
	}
}

func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if err := http2.ConfigureTransport(transport); err != nil {
		apiLog.InFunc("newHTTPClient").WithError(err).Warn("unable to enable http2, using http/1.1")
	}
	return &http.Client{Transport: transport}
}

// GetMe returns the raw body describing the authenticated user
func (c *Client) GetMe() ([]byte, error) {
	return c.getLegacy("/me", nil)
}

// GetCurrentUser decodes the authenticated user
func (c *Client) GetCurrentUser() (*model.User, error) {
	body, err := c.GetMe()
	if err != nil {
		return nil, err
	}
	user, err := model.DecodeUser(body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode response")
	}
	return user, nil
}

// GetAllProjects lists the followed projects
func (c *Client) GetAllProjects() ([]model.Project, error) {
	body, err := c.getLegacy("/projects", nil)
	if err != nil {
		return nil, err
	}
	list := []model.Project{}
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetAllPipelines returns the first page of pipelines of project
func (c *Client) GetAllPipelines(project string) (*model.PipelineList, error) {
	body, err := c.getCurrent(c.projectPath(project) + "/pipeline")
	if err != nil {
		return nil, err
	}
	list := &model.PipelineList{}
	if err := decode(body, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetLatestArtifacts lists the artifacts of the latest build of branch
func (c *Client) GetLatestArtifacts(project, branch string) ([]model.Artifact, error) {
	endpoint := c.projectPath(project) + "/latest/artifacts"
	body, err := c.getLegacy(endpoint, ArtifactsQuery{Branch: branch}.query())
	if err != nil {
		return nil, err
	}
	list := []model.Artifact{}
	if err := decode(body, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// TriggerBuildFor triggers a pipeline of project. Empty branch and tag are
// not sent.
func (c *Client) TriggerBuildFor(project, branch, tag string) (*model.PipelineLight, error) {
	data, err := json.Marshal(TriggerBody{Branch: branch, Tag: tag})
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode trigger body")
	}

	body, err := c.postCurrent(c.projectPath(project)+"/pipeline", data)
	if err != nil {
		return nil, err
	}
	pipeline := &model.PipelineLight{}
	if err := decode(body, pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}

func (c *Client) projectPath(project string) string {
	return fmt.Sprintf("/project/%s/%s/%s", c.VCSType, c.Owner, url.PathEscape(project))
}

// LegacyURLFor builds a v1.1 URL. The token is always the first parameter.
func (c *Client) LegacyURLFor(endpoint string, query Query) string {
	params := Query{}.Add(tokenParam, c.token)
	params = append(params, query...)
	return createURL(c.LegacyURL, endpoint, params)
}

// CurrentURLFor builds a v2 URL
func (c *Client) CurrentURLFor(endpoint string, query Query) string {
	return createURL(c.CurrentURL, endpoint, query)
}

func createURL(base, endpoint string, query Query) string {
	if len(query) == 0 {
		return base + endpoint
	}
	return base + endpoint + "?" + query.Encode()
}

func (c *Client) getLegacy(endpoint string, query Query) ([]byte, error) {
	return c.sendAPIRequest("GET", c.LegacyURLFor(endpoint, query), nil, nil)
}

func (c *Client) getCurrent(endpoint string) ([]byte, error) {
	header := http.Header{}
	header.Set(tokenHeader, c.token)
	return c.sendAPIRequest("GET", c.CurrentURLFor(endpoint, nil), header, nil)
}

func (c *Client) postCurrent(endpoint string, data []byte) ([]byte, error) {
	header := http.Header{}
	header.Set(tokenHeader, c.token)
	return c.sendAPIRequest("POST", c.CurrentURLFor(endpoint, nil), header, data)
}

func (c *Client) sendAPIRequest(method, endpoint string, header http.Header, data []byte) ([]byte, error) {
	requestID := uuid.NewV4().String()
	log := apiLog.InFunc("sendAPIRequest").WithRequestID(requestID)

	var reqBody io.Reader
	if data != nil {
		reqBody = bytes.NewReader(data)
		log.Infof("%s %s with body %s", method, c.redact(endpoint), data)
	} else {
		log.Infof("%s %s", method, c.redact(endpoint))
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create request %s %s", method, c.redact(endpoint))
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("X-Request-ID", requestID)
	if data != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// the url in a transport error still carries the token
		return nil, errors.Errorf("%s %s failed: %s", method, c.redact(endpoint), c.redact(err.Error()))
	}

	body, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiError := &APIError{}
		if err := json.Unmarshal(body, apiError); err != nil || apiError.Message == "" {
			apiError.Message = http.StatusText(resp.StatusCode)
		}
		apiError.StatusCode = resp.StatusCode
		log.WithField("status", resp.StatusCode).Debugf("API error: %s", apiError.Message)
		return nil, apiError
	}

	log.WithField("status", resp.StatusCode).Debugf("received %d bytes", len(body))
	return body, nil
}

func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	s = strings.Replace(s, url.QueryEscape(c.token), "xxxx", -1)
	return strings.Replace(s, c.token, "xxxx", -1)
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "unable to decode response")
	}
	return nil
}
