package dingsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ContactUser fetches the contact profile for a union id using the app
// access token. The app token must have been established beforehand via
// ExchangeAppToken.
func (c *Client) ContactUser(ctx context.Context, unionID string) (*UserInfo, error) {
	token, err := c.AppAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	rawURL := c.apiBaseURL + "/v1.0/contact/users/" + url.PathEscape(unionID)
	resp, err := c.roundTrip(ctx, http.MethodGet, rawURL, token, nil)
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := decodeJSON(resp, &user); err != nil {
		return nil, err
	}

	c.logger.Info("fetched contact user", "union_id", unionID, "username", user.Username)
	return &user, nil
}
