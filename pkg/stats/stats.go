package stats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/suitegen/suitegen/pkg/constants"
	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/lumber"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dateLayout = "2006-01-02"

// Options configure the CI provider test stats endpoint.
type Options struct {
	BaseURL  string
	APIToken string
	Attempts uint
	Delay    time.Duration
}

type statsProvider struct {
	logger   lumber.Logger
	requests core.Requests
	opts     Options
}

// New returns a StatsProvider backed by the CI provider's historic test
// stats REST endpoint.
func New(opts Options, requests core.Requests, logger lumber.Logger) core.StatsProvider {
	if opts.Attempts == 0 {
		opts.Attempts = constants.DefaultStatsAttempts
	}
	if opts.Delay == 0 {
		opts.Delay = constants.DefaultStatsRetryDelay
	}
	return &statsProvider{
		logger:   logger,
		requests: requests,
		opts:     opts,
	}
}

// testStatsRow is one row of the provider's test stats response.
type testStatsRow struct {
	TestFile        string  `json:"test_file"`
	TaskName        string  `json:"task_name"`
	Variant         string  `json:"variant"`
	Date            string  `json:"date"`
	NumPass         int     `json:"num_pass"`
	AvgDurationPass float64 `json:"avg_duration_pass"`
}

// FetchCatalog fetches per-test durations for the task over the lookback
// window. Any failure degrades to ErrStatsUnavailable; the caller falls back
// to the round robin strategy instead of failing the pipeline.
func (s *statsProvider) FetchCatalog(ctx context.Context, project, taskName, buildVariant string,
	start, end time.Time) (core.DurationCatalog, error) {
	endpoint := s.endpoint(project, taskName, buildVariant, start, end)

	var body []byte
	err := retry.Do(func() error {
		var reqErr error
		body, reqErr = s.requests.MakeAPIRequest(ctx, http.MethodGet, endpoint, nil, s.opts.APIToken)
		return reqErr
	}, retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Attempts(s.opts.Attempts),
		retry.Delay(s.opts.Delay),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warnf("retrying test stats fetch for task %s, attempt %d, error: %v", taskName, n+1, err)
		}))
	if err != nil {
		s.logger.Warnf("could not fetch test stats for project %s, task %s, variant %s, error: %v",
			project, taskName, buildVariant, err)
		return nil, errs.ErrStatsUnavailable
	}

	var rows []testStatsRow
	if err := json.Unmarshal(body, &rows); err != nil {
		s.logger.Warnf("could not decode test stats for task %s, error: %v", taskName, err)
		return nil, errs.ErrStatsUnavailable
	}

	catalog := core.TestStatsCatalog{}
	for i := range rows {
		row := &rows[i]
		if row.NumPass == 0 || row.AvgDurationPass <= 0 {
			continue
		}
		observed, parseErr := time.Parse(dateLayout, row.Date)
		if parseErr != nil {
			observed = end
		}
		test := core.TestRef(row.TestFile)
		catalog[test] = append(catalog[test], core.DurationSample{
			Test:        test,
			DurationSec: row.AvgDurationPass,
			ObservedAt:  observed,
		})
	}
	if len(catalog) == 0 {
		s.logger.Warnf("test stats response for task %s held no usable samples", taskName)
		return nil, errs.ErrStatsUnavailable
	}
	s.logger.Debugf("fetched durations for %d tests of task %s on variant %s",
		len(catalog), taskName, buildVariant)
	return catalog, nil
}

func (s *statsProvider) endpoint(project, taskName, buildVariant string, start, end time.Time) string {
	query := url.Values{}
	query.Set("tasks", taskName)
	query.Set("variants", buildVariant)
	query.Set("after_date", start.Format(dateLayout))
	query.Set("before_date", end.Format(dateLayout))
	query.Set("group_num_days", "1")
	return fmt.Sprintf("%s/projects/%s/test_stats?%s",
		s.opts.BaseURL, url.PathEscape(project), query.Encode())
}
