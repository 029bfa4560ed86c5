package headhunter

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hh.ru"
	userAgent = "spigell/hh-collector (spigelly@gmail.com)"
	// Max value for search per page.
	perPage = "100"

	// Page ceilings: employer fetches walk at most maxEmployerPages pages,
	// random discovery picks a single page within [0, maxRandomPage].
	maxEmployerPages = 20
	maxRandomPage    = 100
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// PageDelay is the pause between page requests of one employer fetch.
	PageDelay time.Duration
}

// New creates an API client. The token is optional: the public vacancies
// endpoint answers anonymous requests as well.
func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
		PageDelay: 200 * time.Millisecond,
	}
}
