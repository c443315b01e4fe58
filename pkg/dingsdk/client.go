package dingsdk

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/copperline/dingtalk/pkg/tokencache"
)

// Default DingTalk endpoint roots. The v1.0 API and the legacy topapi
// surface live on different hosts and attach tokens differently; see
// http_helpers.go.
const (
	defaultAPIBaseURL  = "https://api.dingtalk.com"
	defaultOAPIBaseURL = "https://oapi.dingtalk.com"
	defaultAuthBaseURL = "https://login.dingtalk.com"
)

// defaultRequestsPerSecond is a courtesy client-side ceiling below
// DingTalk's documented per-app throttle, applied to every outbound call.
const defaultRequestsPerSecond = 20

// Config carries everything needed to construct a Client. AppID, AppSecret
// and Store are required; the rest defaults sensibly.
type Config struct {
	AppID     string
	AppSecret string

	// Store is the shared credential store (constructor injection so tests
	// can substitute an in-memory fake).
	Store tokencache.Store

	// SingleFlight coalesces concurrent token issuance per key. Off by
	// default: the duplicate-issuance stampede at expiry is accepted in
	// exchange for zero coordination.
	SingleFlight bool

	// RequestsPerSecond caps outbound calls; 0 selects the default, a
	// negative value disables limiting.
	RequestsPerSecond float64

	HTTPClient *http.Client
	Logger     *slog.Logger

	// Endpoint overrides, used by tests.
	APIBaseURL  string
	OAPIBaseURL string
	AuthBaseURL string
}

// Client talks to the DingTalk open platform on behalf of one application.
// Construction is cheap and side-effect-free: no network or store access
// happens until the first call needs a token.
type Client struct {
	appID     string
	appSecret string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	tokens     tokencache.Acquirer

	apiBaseURL  string
	oapiBaseURL string
	authBaseURL string
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("dingsdk: AppID is required")
	}
	if cfg.AppSecret == "" {
		return nil, fmt.Errorf("dingsdk: AppSecret is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("dingsdk: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	var tokens tokencache.Acquirer
	manager := tokencache.NewManager(cfg.Store, logger)
	if cfg.SingleFlight {
		tokens = tokencache.NewSingleFlightManager(manager)
	} else {
		tokens = manager
	}

	var limiter *rate.Limiter
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = defaultRequestsPerSecond
	}
	if rps > 0 {
		// Fractional rates truncate to a zero burst, which would make
		// every Wait fail.
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &Client{
		appID:       cfg.AppID,
		appSecret:   cfg.AppSecret,
		httpClient:  httpClient,
		limiter:     limiter,
		logger:      logger,
		tokens:      tokens,
		apiBaseURL:  orDefault(cfg.APIBaseURL, defaultAPIBaseURL),
		oapiBaseURL: orDefault(cfg.OAPIBaseURL, defaultOAPIBaseURL),
		authBaseURL: orDefault(cfg.AuthBaseURL, defaultAuthBaseURL),
	}, nil
}

// AppID returns the application id this client was constructed with.
func (c *Client) AppID() string { return c.appID }

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
