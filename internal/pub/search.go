package pub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/pubspec-tools/pubassist/internal/core"
)

// hydrateConcurrency bounds the per-hit detail fetches a search fans out.
const hydrateConcurrency = 15

type searchResponse struct {
	Packages []searchHit `json:"packages"`
	Next     string      `json:"next"`
}

type searchHit struct {
	Package string `json:"package"`
}

// ApplyMode appends the mode's sdk qualifier to a search query.
func ApplyMode(query string, mode core.SearchMode) string {
	q := mode.Qualifier()
	if q == "" {
		return query
	}
	if query == "" {
		return q
	}
	return query + " " + q
}

// Search runs a registry search and hydrates each hit into a full Package
// with its details and score. Results are capped at the configured maximum
// and cached per query+page. The search endpoint only returns names, so
// every hit costs one detail fetch and one score fetch.
func (r *Registry) Search(ctx context.Context, query string, page int) ([]core.Package, error) {
	if page < 1 {
		page = 1
	}

	key := fmt.Sprintf("search:%s:%d", query, page)
	if data, ok := r.cache.Get(key); ok {
		var pkgs []core.Package
		if err := json.Unmarshal(data, &pkgs); err == nil {
			return pkgs, nil
		}
	}

	searchURL := fmt.Sprintf("%s/api/search?q=%s&page=%d", r.baseURL, url.QueryEscape(query), page)

	var resp searchResponse
	if err := r.client.GetJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	hits := resp.Packages
	if len(hits) > r.maxResults {
		hits = hits[:r.maxResults]
	}

	pkgs := r.hydrate(ctx, hits)

	if data, err := json.Marshal(pkgs); err == nil {
		_ = r.cache.SetTTL(key, data, searchTTL)
	}
	return pkgs, nil
}

// hydrate resolves search hits in parallel, keeping the registry's ranking
// order. Hits whose detail fetch fails are dropped.
func (r *Registry) hydrate(ctx context.Context, hits []searchHit) []core.Package {
	slots := make([]*core.Package, len(hits))
	sem := make(chan struct{}, hydrateConcurrency)
	var wg sync.WaitGroup

	for i, hit := range hits {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			pkg, err := r.hydrateOne(ctx, name)
			if err == nil && pkg != nil {
				slots[i] = pkg
			}
		}(i, hit.Package)
	}
	wg.Wait()

	pkgs := make([]core.Package, 0, len(hits))
	for _, p := range slots {
		if p != nil {
			pkgs = append(pkgs, *p)
		}
	}
	return pkgs
}

// Info fetches a single package hydrated with its score, the same shape a
// search result carries.
func (r *Registry) Info(ctx context.Context, name string) (*core.Package, error) {
	return r.hydrateOne(ctx, name)
}

func (r *Registry) hydrateOne(ctx context.Context, name string) (*core.Package, error) {
	details, err := r.Details(ctx, name)
	if err != nil {
		return nil, err
	}

	pkg := &core.Package{
		Name:        details.Name,
		Latest:      details.Latest,
		Description: details.Pubspec.Description,
		Homepage:    details.Pubspec.Homepage,
		Repository:  details.Pubspec.Repository,
	}

	// A missing scorecard leaves the package usable, just unscored.
	if score, err := r.Score(ctx, name); err == nil {
		pkg.Likes = score.Likes
		pkg.PubPoints = score.GrantedPoints
		pkg.MaxPoints = score.MaxPoints
		pkg.Popularity = score.Popularity
		pkg.Tags = score.Tags
		for _, tag := range score.Tags {
			switch tag {
			case "sdk:flutter":
				pkg.Flutter = true
			case "sdk:dart":
				pkg.Dart = true
			}
		}
	}
	return pkg, nil
}
