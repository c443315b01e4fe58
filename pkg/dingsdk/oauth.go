package dingsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/oklog/ulid/v2"

	"github.com/copperline/dingtalk/pkg/tokencache"
)

// appTokenRecord is the app-domain credential record. It carries issuance
// metadata beyond the token because the corp-id lookup depends on it; only
// the token itself participates in freshness decisions. The record is
// stored without a store-side expiry and lives until the next
// authorization-code exchange overwrites it.
type appTokenRecord struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	CorpID       string `json:"corpId"`
	ExpireIn     int    `json:"expireIn"`
}

// NewState returns a fresh opaque state value for AuthorizeURL. Callers
// must hold on to it and compare it against the state echoed back on the
// redirect to reject forged callbacks.
func NewState() string {
	return ulid.Make().String()
}

// AuthorizeURL builds the user-consent redirect URL. The user lands on
// DingTalk's login page and, after consenting, is redirected to redirectURI
// with a single-use authorization code and the given state.
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	query := url.Values{}
	query.Set("redirect_uri", redirectURI)
	query.Set("response_type", "code")
	query.Set("client_id", c.appID)
	query.Set("scope", "openid corpid")
	query.Set("state", state)
	query.Set("prompt", "consent")

	return c.authBaseURL + "/oauth2/auth?" + query.Encode()
}

// ExchangeAppToken exchanges a single-use authorization code for the app
// access token, persists the full record in the app domain, and returns the
// corp id of the consenting organization. A failed exchange leaves the
// previously stored record (if any) untouched.
func (c *Client) ExchangeAppToken(ctx context.Context, code string) (string, error) {
	value, err := c.tokens.Replace(ctx, tokencache.AppKey(c.appID), func(ctx context.Context) (tokencache.Credential, error) {
		body := map[string]string{
			"clientId":     c.appID,
			"clientSecret": c.appSecret,
			"code":         code,
			"refreshToken": "",
			"grantType":    "authorization_code",
		}

		resp, err := c.roundTrip(ctx, http.MethodPost, c.apiBaseURL+"/v1.0/oauth2/userAccessToken", "", body)
		if err != nil {
			return tokencache.Credential{}, err
		}

		var record appTokenRecord
		if err := decodeJSON(resp, &record); err != nil {
			return tokencache.Credential{}, err
		}
		if record.AccessToken == "" {
			return tokencache.Credential{}, fmt.Errorf("exchange returned empty access token")
		}

		raw, err := json.Marshal(record)
		if err != nil {
			return tokencache.Credential{}, fmt.Errorf("encode app token record: %w", err)
		}
		return tokencache.Credential{Value: string(raw)}, nil
	})
	if err != nil {
		return "", err
	}

	record, err := parseAppTokenRecord(value)
	if err != nil {
		return "", err
	}

	c.logger.Info("app access token exchanged", "app_id", c.appID, "corp_id", record.CorpID)
	return record.CorpID, nil
}

// AppAccessToken returns the cached app access token. It never triggers an
// exchange: minting a new app token needs a fresh user-consented
// authorization code, so a miss surfaces tokencache.ErrCredentialAbsent.
func (c *Client) AppAccessToken(ctx context.Context) (string, error) {
	record, err := c.appTokenRecord(ctx)
	if err != nil {
		return "", err
	}
	return record.AccessToken, nil
}

// CorpID returns the corp id captured by the last app-token exchange.
func (c *Client) CorpID(ctx context.Context) (string, error) {
	record, err := c.appTokenRecord(ctx)
	if err != nil {
		return "", err
	}
	return record.CorpID, nil
}

func (c *Client) appTokenRecord(ctx context.Context) (appTokenRecord, error) {
	value, err := c.tokens.Lookup(ctx, tokencache.AppKey(c.appID))
	if err != nil {
		return appTokenRecord{}, err
	}
	return parseAppTokenRecord(value)
}

func parseAppTokenRecord(value string) (appTokenRecord, error) {
	var record appTokenRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return appTokenRecord{}, fmt.Errorf("decode app token record: %w", err)
	}
	return record, nil
}
