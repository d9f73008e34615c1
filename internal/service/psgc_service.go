package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/config"
)

// ErrUpstream means the geographic reference API could not be reached or
// returned a non-success status.
var ErrUpstream = errors.New("geographic reference service unavailable")

// Place is the simplified code+name projection of a PSGC record.
type Place struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// PSGCService proxies the Philippine Standard Geographic Code API for the
// address dropdowns, caching each list in redis so repeated lookups don't
// hit the upstream.
type PSGCService interface {
	Provinces(ctx context.Context) ([]Place, error)
	Cities(ctx context.Context, provinceCode string) ([]Place, error)
	Barangays(ctx context.Context, cityCode string) ([]Place, error)
}

type psgcService struct {
	baseURL string
	ttl     time.Duration
	client  *http.Client
	rdb     *redis.Client
	log     zerolog.Logger
}

func NewPSGCService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) PSGCService {
	return &psgcService{
		baseURL: cfg.PSGCBaseURL,
		ttl:     cfg.PSGCCacheTTL,
		client:  &http.Client{Timeout: 15 * time.Second},
		rdb:     rdb,
		log:     log,
	}
}

func (s *psgcService) Provinces(ctx context.Context) ([]Place, error) {
	return s.fetch(ctx, config.CacheKey.PSGCProvincesKey(), "/provinces.json")
}

func (s *psgcService) Cities(ctx context.Context, provinceCode string) ([]Place, error) {
	return s.fetch(ctx, config.CacheKey.PSGCCitiesKey(provinceCode),
		fmt.Sprintf("/provinces/%s/cities-municipalities.json", provinceCode))
}

func (s *psgcService) Barangays(ctx context.Context, cityCode string) ([]Place, error) {
	return s.fetch(ctx, config.CacheKey.PSGCBarangaysKey(cityCode),
		fmt.Sprintf("/cities-municipalities/%s/barangays.json", cityCode))
}

func (s *psgcService) fetch(ctx context.Context, cacheKey, path string) ([]Place, error) {
	if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var places []Place
		if err := json.Unmarshal(cached, &places); err == nil {
			return places, nil
		}
		// Corrupt cache entry, fall through and refetch.
	} else if err != redis.Nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("PSGC cache read failed")
	}

	places, err := s.request(ctx, path)
	if err != nil {
		return nil, err
	}

	sort.Slice(places, func(i, j int) bool { return places[i].Name < places[j].Name })

	if payload, err := json.Marshal(places); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", cacheKey).Msg("PSGC cache write failed")
		}
	}
	return places, nil
}

func (s *psgcService) request(ctx context.Context, path string) ([]Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("PSGC request failed")
		return nil, ErrUpstream
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		s.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("PSGC returned non-200")
		return nil, ErrUpstream
	}

	var places []Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("PSGC payload decode failed")
		return nil, ErrUpstream
	}
	return places, nil
}
