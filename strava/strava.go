// Package strava is a minimal client for the Strava v3 API: refresh token exchange, the
// athlete activity list and the per-activity detail.
package strava

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL  = "https://www.strava.com/oauth/authorize"
	DefaultTokenURL = "https://www.strava.com/oauth/token"
	DefaultAPIURL   = "https://www.strava.com/api/v3"
	DefaultPerPage  = 30
	Scope           = "activity:read_all"
)

type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	APIURL       string
	RedirectURL  string
	PerPage      int
}

// Activity is an entry in the athlete activity list. Heartrate fields are only present for
// activities recorded with a heartrate monitor.
type Activity struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Distance         float64  `json:"distance"`
	MovingTime       int64    `json:"moving_time"`
	ElapsedTime      int64    `json:"elapsed_time"`
	StartDateLocal   string   `json:"start_date_local"`
	AverageSpeed     float64  `json:"average_speed"`
	MaxSpeed         float64  `json:"max_speed"`
	HasHeartrate     bool     `json:"has_heartrate"`
	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64 `json:"max_heartrate,omitempty"`
}

// DetailedActivity adds the fields that are only returned by the activity detail endpoint.
type DetailedActivity struct {
	Activity
	Calories    *float64 `json:"calories,omitempty"`
	SufferScore *float64 `json:"suffer_score,omitempty"`
}

func (c Config) OAuth2() *oauth2.Config {
	authURL := c.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}

	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       []string{Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// Refresh exchanges the stored refresh token for a new access token. Strava rotates refresh
// tokens, so the new refresh token is stored before the access token is returned.
func Refresh(ctx context.Context, cfg Config, tokens TokenStore) (*oauth2.Token, error) {
	refresh, err := tokens.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read refresh token (%w)", err)
	}

	token, err := cfg.OAuth2().TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token (%w)", err)
	}

	if err := tokens.Write(token.RefreshToken); err != nil {
		return nil, fmt.Errorf("unable to save refresh token (%w)", err)
	}

	return token, nil
}

// AuthCodeURL returns the Strava authorisation page URL for the one-off authorisation flow.
func AuthCodeURL(cfg Config, state string) string {
	return cfg.OAuth2().AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))
}

// Exchange swaps an authorisation code for a token and stores the refresh token.
func Exchange(ctx context.Context, cfg Config, code string, tokens TokenStore) (*oauth2.Token, error) {
	token, err := cfg.OAuth2().Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := tokens.Write(token.RefreshToken); err != nil {
		return nil, fmt.Errorf("unable to save refresh token (%w)", err)
	}

	return token, nil
}
