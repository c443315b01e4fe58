package dingsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/copperline/dingtalk/pkg/tokencache"
	"github.com/copperline/dingtalk/pkg/tokencache/drivers/memory"
)

// corpTestServer fakes the corp token endpoint plus whatever extra handler
// the test registers, counting token issuances.
func corpTestServer(t *testing.T, issuances *int, extra http.HandlerFunc) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1.0/oauth2/corp-1/token" {
			require.Equal(t, http.MethodPost, r.Method)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "app-id", body["client_id"])
			require.Equal(t, "app-secret", body["client_secret"])
			require.Equal(t, "client_credentials", body["grant_type"])

			*issuances++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "corp-tok",
				"expires_in":   7200,
			})
			return
		}
		extra(w, r)
	}))
}

func TestCorpAccessToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.NewStore()
	var issuances int
	server := corpTestServer(t, &issuances, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unexpected call", http.StatusTeapot)
	})
	defer server.Close()

	corp := testClient(t, store, server.URL).Corp("corp-1")
	require.Equal(t, "corp-1", corp.CorpID())

	token, err := corp.AccessToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "corp-tok", token)
	require.Equal(t, 1, issuances)

	t.Run("token lands under the corp-domain key", func(t *testing.T) {
		stored, ok, err := store.Get(ctx, tokencache.CorpKey("corp-1"))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "corp-tok", stored)
	})

	t.Run("second acquire is served from the store", func(t *testing.T) {
		token, err := corp.AccessToken(ctx)
		require.NoError(t, err)
		require.Equal(t, "corp-tok", token)
		require.Equal(t, 1, issuances)
	})
}

func TestCorpAccessTokenRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.NewStore()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "forbidden",
			"message": "app not authorized for corp",
		})
	}))
	defer server.Close()

	corp := testClient(t, store, server.URL).Corp("corp-1")

	_, err := corp.AccessToken(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "forbidden", apiErr.Code)

	_, ok, err := store.Get(ctx, tokencache.CorpKey("corp-1"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOrganization(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var issuances int
	server := corpTestServer(t, &issuances, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1.0/contact/organizations/authInfos", r.URL.Path)
		require.Equal(t, "corp-1", r.URL.Query().Get("targetCorpId"))
		require.Equal(t, "corp-tok", r.Header.Get(accessTokenHeader))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"licenseUrl":          "https://example.com/license.png",
			"orgName":             "Example Pty Ltd",
			"registrationNum":     "12345",
			"unifiedSocialCredit": "91310000MA1FL73Q3X",
			"organizationCode":    "MA1FL73Q3",
			"legalPerson":         "Jo Example",
			"licenseOrgName":      "Example Pty Ltd",
			"authLevel":           2,
		})
	})
	defer server.Close()

	corp := testClient(t, memory.NewStore(), server.URL).Corp("corp-1")

	org, err := corp.Organization(ctx)
	require.NoError(t, err)
	require.Equal(t, "Example Pty Ltd", org.Name)
	require.Equal(t, 2, org.AuthLevel)
	require.Equal(t, 1, issuances)
}

func TestUserByCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var issuances int
	server := corpTestServer(t, &issuances, func(w http.ResponseWriter, r *http.Request) {
		// topapi calls carry the token as a query parameter, not a header.
		require.Equal(t, "corp-tok", r.URL.Query().Get("access_token"))
		require.Empty(t, r.Header.Get(accessTokenHeader))

		switch r.URL.Path {
		case "/topapi/v2/user/getuserinfo":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "login-code", body["code"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"errcode": 0,
				"errmsg":  "ok",
				"result":  map[string]any{"userid": "user-9", "unionid": "union-9", "name": "Jo"},
			})
		case "/topapi/v2/user/get":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "user-9", body["userid"])

			_ = json.NewEncoder(w).Encode(map[string]any{
				"errcode": 0,
				"errmsg":  "ok",
				"result": map[string]any{
					"userid":    "user-9",
					"unionid":   "union-9",
					"name":      "Jo Example",
					"mobile":    "0400000000",
					"org_email": "jo@example.com",
				},
			})
		default:
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusTeapot)
		}
	})
	defer server.Close()

	corp := testClient(t, memory.NewStore(), server.URL).Corp("corp-1")

	user, err := corp.UserByCode(ctx, "login-code")
	require.NoError(t, err)
	require.Equal(t, "Jo Example", user.Username)
	require.Equal(t, "union-9", user.UnionID)
	require.Equal(t, "jo@example.com", user.Email)
	require.Equal(t, "0400000000", user.Mobile)

	// Both topapi steps reuse the single issued corp token.
	require.Equal(t, 1, issuances)
}

func TestTopAPIEnvelopeError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var issuances int
	server := corpTestServer(t, &issuances, func(w http.ResponseWriter, _ *http.Request) {
		// topapi reports failures in-band on HTTP 200.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errcode": 40014,
			"errmsg":  "invalid access_token",
		})
	})
	defer server.Close()

	corp := testClient(t, memory.NewStore(), server.URL).Corp("corp-1")

	_, err := corp.EmployeeCount(ctx, true)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "40014", apiErr.Code)
	require.Equal(t, "invalid access_token", apiErr.Message)
}
