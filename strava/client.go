package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/oauth2"
)

type Client struct {
	client  *http.Client
	api     string
	perPage int
}

// NewClient returns a client that authenticates with the access token as a bearer token.
func NewClient(ctx context.Context, cfg Config, token *oauth2.Token) *Client {
	api := cfg.APIURL
	if api == "" {
		api = DefaultAPIURL
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	return &Client{
		client:  oauth2.NewClient(ctx, oauth2.StaticTokenSource(token)),
		api:     strings.TrimSuffix(api, "/"),
		perPage: perPage,
	}
}

// FetchActivities returns the raw JSON for the most recent page of athlete activities.
func (c *Client) FetchActivities(ctx context.Context) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%v/athlete/activities?per_page=%v", c.api, c.perPage))
}

// Activity retrieves the detail for a single activity.
func (c *Client) Activity(ctx context.Context, id int64) (*DetailedActivity, error) {
	b, err := c.get(ctx, fmt.Sprintf("%v/activities/%v", c.api, id))
	if err != nil {
		return nil, err
	}

	var activity DetailedActivity
	if err := json.Unmarshal(b, &activity); err != nil {
		return nil, fmt.Errorf("invalid activity %v (%w)", id, err)
	}

	return &activity, nil
}

func DecodeActivities(b []byte) ([]Activity, error) {
	activities := []Activity{}
	if err := json.Unmarshal(b, &activities); err != nil {
		return nil, fmt.Errorf("invalid activity list (%w)", err)
	}

	return activities, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	response, err := ctxhttp.Get(ctx, c.client, url)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	b, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%v: %v", response.Status, strings.TrimSpace(string(b)))
	}

	return b, nil
}
