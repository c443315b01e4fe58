package dingsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/copperline/dingtalk/pkg/tokencache"
)

// CorpSession binds one corp id to the client so downstream calls never
// re-supply identity. It holds no state beyond the identifiers and the
// shared token machinery; construction performs no network or store access.
type CorpSession struct {
	client *Client
	corpID string
}

// Corp returns a session for the given corp id.
func (c *Client) Corp(corpID string) *CorpSession {
	return &CorpSession{client: c, corpID: corpID}
}

// CorpID returns the bound corp id.
func (s *CorpSession) CorpID() string { return s.corpID }

// AccessToken returns a currently valid corp access token, transparently
// performing the client-credentials exchange on a cache miss. A cached
// token is trusted for the lifetime the issuer declared.
func (s *CorpSession) AccessToken(ctx context.Context) (string, error) {
	return s.client.tokens.Acquire(ctx, tokencache.CorpKey(s.corpID), s.issueToken)
}

// corpTokenResponse is the client-credentials exchange response.
type corpTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// issueToken performs the machine-to-machine exchange. Unlike the app-token
// exchange it needs no external consent and may run on every expiry.
func (s *CorpSession) issueToken(ctx context.Context) (tokencache.Credential, error) {
	c := s.client
	body := map[string]string{
		"client_id":     c.appID,
		"client_secret": c.appSecret,
		"grant_type":    "client_credentials",
	}

	rawURL := c.apiBaseURL + "/v1.0/oauth2/" + url.PathEscape(s.corpID) + "/token"
	resp, err := c.roundTrip(ctx, http.MethodPost, rawURL, "", body)
	if err != nil {
		return tokencache.Credential{}, err
	}

	var token corpTokenResponse
	if err := decodeJSON(resp, &token); err != nil {
		return tokencache.Credential{}, err
	}
	if token.AccessToken == "" {
		return tokencache.Credential{}, fmt.Errorf("exchange returned empty access token")
	}

	return tokencache.Credential{
		Value:    token.AccessToken,
		Lifetime: time.Duration(token.ExpiresIn) * time.Second,
	}, nil
}

// Organization fetches the corp's enterprise authentication record.
func (s *CorpSession) Organization(ctx context.Context) (*Organization, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	c := s.client
	rawURL := c.apiBaseURL + "/v1.0/contact/organizations/authInfos?targetCorpId=" + url.QueryEscape(s.corpID)
	resp, err := c.roundTrip(ctx, http.MethodGet, rawURL, token, nil)
	if err != nil {
		return nil, err
	}

	var org Organization
	if err := decodeJSON(resp, &org); err != nil {
		return nil, err
	}

	c.logger.Info("fetched organization", "corp_id", s.corpID, "org_name", org.Name)
	return &org, nil
}

// userByCodeResult is the topapi getuserinfo result payload.
type userByCodeResult struct {
	DeviceID string `json:"device_id"`
	Username string `json:"name"`
	IsAdmin  bool   `json:"sys"`
	Level    int    `json:"sys_level"`
	UnionID  string `json:"unionid"`
	UserID   string `json:"userid"`
}

// userIDByCode resolves a login authorization code to the corp-local user id.
func (s *CorpSession) userIDByCode(ctx context.Context, code string) (string, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	var out struct {
		topEnvelope
		Result userByCodeResult `json:"result"`
	}
	body := map[string]string{"code": code}
	if err := s.client.postTop(ctx, "/topapi/v2/user/getuserinfo", token, body, &out); err != nil {
		return "", err
	}
	return out.Result.UserID, nil
}

// employeeProfile fetches the full profile for a corp-local user id.
func (s *CorpSession) employeeProfile(ctx context.Context, userID string) (*EmployeeUser, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var out struct {
		topEnvelope
		Result EmployeeUser `json:"result"`
	}
	body := map[string]string{
		"language": "zh_CN",
		"userid":   userID,
	}
	if err := s.client.postTop(ctx, "/topapi/v2/user/get", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Result, nil
}

// UserByCode resolves a login authorization code to a contact-level
// UserInfo, following the two-step topapi flow (code -> user id -> profile).
func (s *CorpSession) UserByCode(ctx context.Context, code string) (*UserInfo, error) {
	userID, err := s.userIDByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := s.employeeProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.client.logger.Info("resolved user by code", "corp_id", s.corpID, "user_id", userID)
	return &UserInfo{
		Email:    profile.OrgEmail,
		Mobile:   profile.Mobile,
		Username: profile.Username,
		UnionID:  profile.UnionID,
	}, nil
}
