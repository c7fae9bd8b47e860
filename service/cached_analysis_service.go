package service

import (
	"context"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/singleflight"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/logging"
)

// CachedAnalysisService memoizes successful reports of an AnalysisService.
// Identical concurrent requests share one analysis. Errors are never cached.
type CachedAnalysisService struct {
	inner domain.AnalysisService
	cache *lru.Cache[string, *domain.AnalysisReport]
	group singleflight.Group
	// defaultMode is what inner applies to requests without a mode
	defaultMode domain.Mode
	logger      *logrus.Logger
}

// NewCachedAnalysisService wraps inner with an LRU cache of size entries.
// defaultMode is the mode inner is configured with.
func NewCachedAnalysisService(inner domain.AnalysisService, size int, defaultMode string, logger *logrus.Logger) (*CachedAnalysisService, error) {
	cache, err := lru.New[string, *domain.AnalysisReport](size)
	if err != nil {
		return nil, domain.NewConfigError("invalid cache size", err)
	}
	mode, err := domain.ParseMode(defaultMode)
	if err != nil {
		return nil, domain.NewConfigError("invalid default mode", err)
	}
	return &CachedAnalysisService{
		inner:       inner,
		cache:       cache,
		defaultMode: mode,
		logger:      logging.OrDiscard(logger),
	}, nil
}

// SupportedLanguages delegates to the wrapped service
func (s *CachedAnalysisService) SupportedLanguages() []domain.LanguageInfo {
	return s.inner.SupportedLanguages()
}

// Analyze returns a cached report for an identical request, or runs the analysis.
// Every caller receives its own copy with a fresh analysis id.
func (s *CachedAnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	start := time.Now()
	keyed := req
	if keyed.Options.Mode == "" {
		keyed.Options.Mode = s.defaultMode
	}
	key := CacheKey(keyed)

	cached, ok := s.cache.Get(key)
	if !ok {
		led := false
		run := func() (any, error) {
			led = true
			report, err := s.inner.Analyze(ctx, req)
			if err != nil {
				return nil, err
			}
			s.cache.Add(key, report)
			return report, nil
		}
		// Only requests with the same budget share a flight.
		flight := key + ":" + strconv.FormatInt(req.Options.MaxDurationMs, 10)
		v, err, shared := s.group.Do(flight, run)
		if err != nil && shared && !led && budgetError(err) {
			// The leader's deadline or cancellation is not ours.
			s.logger.WithField("cache_key", key[:16]).Debug("shared analysis ran out of budget, retrying")
			v, err = run()
			shared = false
		}
		if err != nil {
			return nil, err
		}
		cached = v.(*domain.AnalysisReport)
		if !shared {
			return s.personalize(cached, req, start, false), nil
		}
	}
	s.logger.WithField("cache_key", key[:16]).Debug("analysis cache hit")
	return s.personalize(cached, req, start, true), nil
}

// Len returns the number of cached reports
func (s *CachedAnalysisService) Len() int {
	return s.cache.Len()
}

func (s *CachedAnalysisService) personalize(report *domain.AnalysisReport, req domain.AnalysisRequest, start time.Time, hit bool) *domain.AnalysisReport {
	out := report.Clone()
	if hit {
		out.AnalysisID = uuid.New().String()
		out.ExecutionTimeMs = time.Since(start).Milliseconds()
	}
	out.Metadata = copyMetadata(req.Metadata)
	return out
}

// budgetError reports whether err came from a deadline or a cancellation
func budgetError(err error) bool {
	var timeout *domain.TimeoutError
	return errors.As(err, &timeout) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// CacheKey digests the request fields that determine a report.
// Metadata and the time budget do not change a successful result.
// Modes are compared in their parsed form, an empty mode being near_miss.
func CacheKey(req domain.AnalysisRequest) string {
	h := blake3.New()
	write := func(s string) {
		_, _ = h.Write([]byte(strconv.Itoa(len(s))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(s))
	}
	write(string(domain.NormalizeLanguage(string(req.Language))))
	mode, err := domain.ParseMode(string(req.Options.Mode))
	if err != nil {
		mode = req.Options.Mode
	}
	write(string(mode))
	write(strconv.FormatFloat(req.Options.SimilarityThreshold, 'g', -1, 64))
	write(req.Source)
	return hex.EncodeToString(h.Sum(nil))
}
