package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/debounce"
	"github.com/atinyakov/QKart/internal/models"
)

// CatalogAPI defines the remote catalog reads.
type CatalogAPI interface {
	Products(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// SearchOutcome classifies a finished search.
type SearchOutcome int

const (
	// SearchReplaced carries a non-empty product list to display.
	SearchReplaced SearchOutcome = iota
	// SearchNotFound means nothing matched (empty result or 4xx).
	SearchNotFound
	// SearchFailed is a server or transport error; the listing stays as is.
	SearchFailed
)

// SearchResult is what a search produced.
type SearchResult struct {
	// Seq orders searches by start time; a later search has a larger Seq.
	Seq      uint64
	Query    string
	Outcome  SearchOutcome
	Products []models.Product
	Err      error
}

// SearchService runs catalog searches, either directly or debounced from
// keystroke-level input.
type SearchService struct {
	api       CatalogAPI
	debouncer *debounce.Debouncer
	log       *zap.Logger
	seq       atomic.Uint64

	mu      sync.Mutex
	base    context.Context
	handler func(SearchResult)
}

// NewSearchService constructs a SearchService whose input is debounced over window.
func NewSearchService(catalog CatalogAPI, window time.Duration, log *zap.Logger) *SearchService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &SearchService{
		api:  catalog,
		log:  log,
		base: context.Background(),
	}
	s.debouncer = debounce.New(window, s.fire)
	return s
}

// Listen registers the handler receiving debounced results. ctx bounds the
// searches started by the debouncer.
func (s *SearchService) Listen(ctx context.Context, handler func(SearchResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = ctx
	s.handler = handler
}

// Input records a keystroke-level change of the query.
func (s *SearchService) Input(query string) {
	s.debouncer.Trigger(query)
}

// Cancel drops a pending debounced search.
func (s *SearchService) Cancel() {
	s.debouncer.Cancel()
}

// Flush runs a pending debounced search now.
func (s *SearchService) Flush() {
	s.debouncer.Flush()
}

func (s *SearchService) fire(query string) {
	s.mu.Lock()
	ctx, handler := s.base, s.handler
	s.mu.Unlock()

	res := s.Search(ctx, query)
	if handler != nil {
		handler(res)
	}
}

// Search runs query immediately. A blank query reloads the full catalog.
func (s *SearchService) Search(ctx context.Context, query string) SearchResult {
	query = strings.TrimSpace(query)
	res := SearchResult{Seq: s.seq.Add(1), Query: query}

	var (
		products []models.Product
		err      error
	)
	if query == "" {
		products, err = s.api.Products(ctx)
	} else {
		products, err = s.api.Search(ctx, query)
	}

	switch {
	case err == nil:
		res.Outcome = SearchReplaced
		res.Products = products
	case errors.Is(err, api.ErrNotFound):
		res.Outcome = SearchNotFound
		res.Err = err
	default:
		res.Outcome = SearchFailed
		res.Err = err
		s.log.Warn("search failed", zap.String("query", query), zap.Error(err))
	}
	return res
}
