package practicumhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BearBump/ReviewBox/internal/integrations/reviews"
	"github.com/pkg/errors"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

type Client struct {
	endpoint string
	token    string
	httpc    *http.Client
}

func New(endpoint, token string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		httpc: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) GetStatuses(ctx context.Context, from time.Time) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "parse endpoint")
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from.Unix(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.WithStack(&reviews.RemoteServerError{StatusCode: resp.StatusCode})
	}

	// UseNumber keeps integer ids intact instead of turning them into float64.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, errors.WithStack(&reviews.MalformedResponseError{Err: err})
	}
	return payload, nil
}
