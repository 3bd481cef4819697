package uptime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/projecthelena/legacyapp/internal/logging"
	"github.com/projecthelena/legacyapp/internal/status"
)

const (
	CheckHealth = "health"
	CheckRoot   = "root"

	maxBodyBytes = 64 << 10
	maxErrorLen  = 200
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrUnexpectedBody   = errors.New("unexpected body")
	ErrClockSkew        = errors.New("deployment timestamp outside allowed skew")
)

// Status is the outcome of one check against one target.
type Status struct {
	Target     string    `json:"target"`
	Check      string    `json:"check"`
	Timestamp  time.Time `json:"timestamp"`
	IsUp       bool      `json:"isUp"`
	Latency    int64     `json:"latencyMs"`
	StatusCode int       `json:"statusCode"`
	Error      string    `json:"error,omitempty"`
}

type CheckerConfig struct {
	HTTPClient   *http.Client
	Timeout      time.Duration // per attempt, ignored when HTTPClient is set
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Concurrency  int

	// MaxSkew bounds |deployedAt - local now| on the root check. Zero skips the comparison.
	MaxSkew time.Duration

	Logger *log.Logger
}

// Checker verifies that deployed instances answer both status routes correctly.
type Checker struct {
	client      *retryablehttp.Client
	concurrency int
	maxSkew     time.Duration
	now         func() time.Time
}

// NewChecker constructs a Checker whose client retries transport errors, 429 and 5xx responses.
func NewChecker(cfg CheckerConfig) *Checker {
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("probe")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cfg.HTTPClient
	retryClient.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = cfg.RetryWaitMax
	}
	retryClient.Logger = cfg.Logger
	// Hand back the last response once retries run out so its status code is recorded.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Checker{
		client:      retryClient,
		concurrency: cfg.Concurrency,
		maxSkew:     cfg.MaxSkew,
		now:         time.Now,
	}
}

// Check runs the health and root checks against a single base URL.
func (c *Checker) Check(ctx context.Context, baseURL string) []Status {
	base := strings.TrimRight(baseURL, "/")
	return []Status{
		c.run(ctx, baseURL, CheckHealth, base+"/health", verifyHealth),
		c.run(ctx, baseURL, CheckRoot, base+"/", c.verifyRoot),
	}
}

// CheckAll checks every target on a bounded worker pool. Results keep the order of targets,
// health before root for each.
func (c *Checker) CheckAll(ctx context.Context, targets []string) []Status {
	results := make([][]Status, len(targets))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(c.concurrency, len(targets)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.Check(ctx, targets[i])
			}
		}()
	}

	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]Status, 0, 2*len(targets))
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// AllUp reports whether every check passed. An empty result set is not up.
func AllUp(results []Status) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.IsUp {
			return false
		}
	}
	return true
}

type verifier func(body []byte) error

func (c *Checker) run(ctx context.Context, target, check, url string, verify verifier) Status {
	start := time.Now().UTC()
	st := Status{Target: target, Check: check, Timestamp: start}

	body, code, err := c.fetch(ctx, url)
	st.Latency = time.Since(start).Milliseconds()
	st.StatusCode = code

	if err == nil && code != http.StatusOK {
		err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	if err == nil {
		err = verify(body)
	}

	if err != nil {
		st.Error = logging.Sanitize(err.Error(), maxErrorLen)
		return st
	}
	st.IsUp = true
	return st
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func verifyHealth(body []byte) error {
	var payload status.HealthResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %q", ErrUnexpectedBody, body)
	}
	if payload.Status != status.StatusUp {
		return fmt.Errorf("%w: status %q", ErrUnexpectedBody, payload.Status)
	}
	return nil
}

func (c *Checker) verifyRoot(body []byte) error {
	deployedAt, err := status.ParseDeployedAt(string(body))
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnexpectedBody, body, err)
	}

	if c.maxSkew > 0 {
		skew := c.now().Sub(deployedAt)
		if skew < 0 {
			skew = -skew
		}
		if skew > c.maxSkew {
			return fmt.Errorf("%w: %v", ErrClockSkew, skew)
		}
	}
	return nil
}
