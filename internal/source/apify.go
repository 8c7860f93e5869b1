package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ppiankov/reviewlens/internal/model"
	"github.com/ppiankov/reviewlens/internal/util"
)

// ScrapeAdapter wraps the third-party scraping service. A fetch submits an
// actor run, polls it at a fixed interval until it reaches a terminal state,
// then downloads the run's dataset.
type ScrapeAdapter struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	actorID      string
	pollInterval time.Duration
	limiter      *rate.Limiter
	log          *zap.Logger
}

// NewScrapeAdapter builds the primary adapter from config.
func NewScrapeAdapter(cfg *model.Config, log *zap.Logger) *ScrapeAdapter {
	return &ScrapeAdapter{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
			},
		},
		baseURL:      cfg.Fetch.BaseURL,
		token:        cfg.Fetch.APIToken,
		actorID:      cfg.Fetch.ActorID,
		pollInterval: cfg.Fetch.PollInterval,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSecond), cfg.Fetch.RateBurst),
		log:          log,
	}
}

// Name returns the adapter name used in provenance tags.
func (a *ScrapeAdapter) Name() string { return "apify" }

// Configured reports whether the adapter has credentials to run.
func (a *ScrapeAdapter) Configured() bool { return a.token != "" }

type runInfo struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runInfo `json:"data"`
}

// Fetch runs the scraping actor for one (product, locale) pair.
func (a *ScrapeAdapter) Fetch(ctx context.Context, productID, locale string, maxReviews int) (*Response, error) {
	if !a.Configured() {
		return &Response{
			Success:   false,
			Error:     "scraping service token not configured",
			ErrorType: model.ErrorTypeUpstreamUnavailable,
		}, nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	run, err := a.startRun(ctx, productID, locale, maxReviews)
	if err != nil {
		return &Response{
			Success:   false,
			Error:     fmt.Sprintf("start run: %v", err),
			ErrorType: model.ErrorTypeUpstreamUnavailable,
		}, nil
	}

	run, err = a.waitForRun(ctx, run)
	if err != nil {
		// Cancellation propagates; polling must not hand back a half-built
		// result.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &Response{
			Success:   false,
			Error:     err.Error(),
			ErrorType: model.ErrorTypeUpstreamUnavailable,
		}, nil
	}

	items, err := a.datasetItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return &Response{
			Success:   false,
			Error:     fmt.Sprintf("download dataset: %v", err),
			ErrorType: model.ErrorTypeUpstreamUnavailable,
		}, nil
	}
	if len(items) == 0 {
		return &Response{
			Success:   false,
			Error:     "run produced no records",
			ErrorType: model.ErrorTypeEmptyResult,
		}, nil
	}

	return buildResponse(items), nil
}

func (a *ScrapeAdapter) startRun(ctx context.Context, productID, locale string, maxReviews int) (runInfo, error) {
	input := map[string]any{
		"amazonDomain": DomainForLocale(locale),
		"asins":        []string{productID},
		"maxReviews":   maxReviews,
		"reviewsSort":  "recent",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return runInfo{}, err
	}

	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", a.baseURL, a.actorID, a.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return runInfo{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var env runEnvelope
	if err := a.doJSON(req, &env); err != nil {
		return runInfo{}, err
	}
	if env.Data.ID == "" {
		return runInfo{}, fmt.Errorf("run was not accepted")
	}
	return env.Data, nil
}

// waitForRun polls the run at the configured fixed interval until it reaches
// a terminal state or ctx is done.
func (a *ScrapeAdapter) waitForRun(ctx context.Context, run runInfo) (runInfo, error) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		switch run.Status {
		case "SUCCEEDED":
			return run, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return run, fmt.Errorf("run finished with status %s", run.Status)
		}

		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-ticker.C:
		}

		url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", a.baseURL, run.ID, a.token)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return run, err
		}
		var env runEnvelope
		if err := a.doJSON(req, &env); err != nil {
			return run, err
		}
		a.log.Debug("run polled", zap.String("run", run.ID), zap.String("status", env.Data.Status))
		run = env.Data
	}
}

func (a *ScrapeAdapter) datasetItems(ctx context.Context, datasetID string) ([]map[string]any, error) {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?format=json&clean=true&token=%s", a.baseURL, datasetID, a.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := a.doJSON(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (a *ScrapeAdapter) doJSON(req *http.Request, out any) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// buildResponse converts dataset items to the adapter response. The first
// item carries product info; reviews either hang off it or arrive one per
// item depending on actor version.
func buildResponse(items []map[string]any) *Response {
	resp := &Response{Success: true, Product: items[0]}

	if nested, ok := items[0]["reviews"].([]any); ok {
		for _, entry := range nested {
			if m, ok := entry.(map[string]any); ok {
				resp.Reviews = append(resp.Reviews, RawReview(m))
			}
		}
		return resp
	}

	for _, item := range items {
		resp.Reviews = append(resp.Reviews, RawReview(item))
	}
	return resp
}
