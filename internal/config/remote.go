package config

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/junction-mcp/junction/pkg/logging"
)

const remoteFetchTimeout = 10 * time.Second

// fetchRemote retrieves one remote configuration document, enforcing the SSRF
// guard and any configured validation rules before the request is made. If
// src.UseCache is set and a fresh cached copy exists, that copy is served
// without a live request; otherwise a live fetch is attempted and, on
// failure, the disk cache (fresh, then stale) is tried instead. A successful
// live fetch is written back to the cache unless src.DisableCacheWrite.
func fetchRemote(src RemoteConfigSource, cache *diskCache) (rawFile, error) {
	if err := checkSSRF(src.URL, src.Security, defaultResolve); err != nil {
		return rawFile{}, fmt.Errorf("rejecting remote config source: %w", err)
	}
	if src.Validation != nil {
		if err := validateURLPattern(src.URL, src.Validation.URLPattern); err != nil {
			return rawFile{}, err
		}
		if err := validateHeaders(src.Headers, src.Validation.HeadersPattern); err != nil {
			return rawFile{}, err
		}
	}

	if src.UseCache && cache != nil {
		if cached, ok := cache.load(src.URL, DefaultRemoteConfigTTL); ok {
			return parseRawBytes(cached, src.URL)
		}
	}

	body, err := fetchLive(src)
	if err != nil {
		logging.Warn("Config", "fetching remote config %s failed: %v, falling back to cache", src.URL, err)
		if cache != nil {
			if cached, ok := cache.load(src.URL, DefaultRemoteConfigTTL); ok {
				return parseRawBytes(cached, src.URL)
			}
			if cached, ok := cache.loadStale(src.URL); ok {
				logging.Warn("Config", "using stale cached copy of %s", src.URL)
				return parseRawBytes(cached, src.URL)
			}
		}
		return rawFile{}, fmt.Errorf("fetching remote config %s: %w", src.URL, err)
	}

	if cache != nil && !src.DisableCacheWrite {
		if err := cache.store(src.URL, body, time.Now()); err != nil {
			logging.Warn("Config", "caching remote config %s failed: %v", src.URL, err)
		}
	}
	return parseRawBytes(body, src.URL)
}

func fetchLive(src RemoteConfigSource) ([]byte, error) {
	client := &http.Client{Timeout: remoteFetchTimeout}

	req, err := http.NewRequest(http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
