// internal/sources/binaryedge/binaryedge.go
package binaryedge

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"subharvest/internal/core/domain"
	"subharvest/internal/core/ports"
	"subharvest/internal/platform/errors"
	"subharvest/internal/platform/httpclient"
	"subharvest/internal/platform/logx"
	"subharvest/internal/platform/registry"
	"subharvest/internal/sources/common"
)

const (
	name     = "binaryedge"
	tokenEnv = "BINARYEDGE_TOKEN"

	// DefaultMaxPages techo de páginas por host.
	DefaultMaxPages = 50

	// DefaultPageWorkers páginas pedidas en paralelo tras la primera.
	DefaultPageWorkers = 4
)

// Meta describe la fuente BinaryEdge.
var Meta = ports.SourceMetadata{
	Name:          name,
	Description:   "BinaryEdge subdomain query (paginated)",
	Tier:          domain.TierCredentialed,
	RequiresAuth:  true,
	CredentialEnv: []string{tokenEnv},
}

// Register añade BinaryEdge al registry.
func Register(r *registry.SourceRegistry) error {
	return r.Register(name, New, Meta)
}

// Source consulta /v2/query/domains/subdomain y recorre todas sus páginas.
type Source struct {
	client      *httpclient.Client
	logger      logx.Logger
	baseURL     string
	token       string
	maxPages    int
	pageWorkers int
}

// New crea la fuente BinaryEdge.
func New(opts ports.SourceOptions) (ports.Source, error) {
	client, logger, err := common.Defaults(opts)
	if err != nil {
		return nil, err
	}

	s := &Source{
		client:      client,
		logger:      logger,
		baseURL:     common.ResolveBaseURL(opts.BaseURL, "https://api.binaryedge.io"),
		token:       opts.Credential(tokenEnv),
		maxPages:    opts.MaxPages,
		pageWorkers: opts.PageWorkers,
	}
	if s.maxPages <= 0 {
		s.maxPages = DefaultMaxPages
	}
	if s.pageWorkers <= 0 {
		s.pageWorkers = DefaultPageWorkers
	}
	return s, nil
}

// Name retorna el nombre del proveedor.
func (s *Source) Name() string {
	return name
}

// page es una página de la respuesta.
type page struct {
	Page     int      `json:"page"`
	PageSize int      `json:"pagesize"`
	Total    int      `json:"total"`
	Events   []string `json:"events"`
}

// Fetch pide la primera página, deriva el cursor de sus metadatos y pide el
// resto en paralelo. Cualquier página fallida invalida el resultado entero.
func (s *Source) Fetch(ctx context.Context, host domain.Host) (domain.SubdomainSet, error) {
	creds := common.Credentials{tokenEnv: s.token}
	if err := common.RequireCredentials(name, creds, tokenEnv); err != nil {
		return nil, err
	}

	first, err := s.fetchPage(ctx, host, 0)
	if err != nil {
		return nil, err
	}

	cursor, err := cursorFrom(first)
	if err != nil {
		return nil, err
	}

	set := common.InScope(host, first.Events)
	if cursor.Done() {
		return set, nil
	}

	if cursor.Truncated(s.maxPages) {
		s.logger.Warn("page ceiling reached, results truncated",
			"host", host.String(), "last_page", cursor.LastPage(), "max_pages", s.maxPages)
	}

	rest, err := s.fetchPages(ctx, host, cursor.Remaining(s.maxPages))
	if err != nil {
		return nil, err
	}
	set.Union(common.InScope(host, rest))

	s.logger.Debug("pagination finished",
		"host", host.String(), "total", cursor.Total, "pages", cursor.LastPage(), "in_scope", set.Len())
	return set, nil
}

// cursorFrom valida los metadatos de la primera página.
func cursorFrom(p page) (domain.PaginationCursor, error) {
	cursor := domain.PaginationCursor{Page: p.Page, PageSize: p.PageSize, Total: p.Total}
	if cursor.Page <= 0 {
		cursor.Page = 1
	}
	if cursor.Total < 0 {
		return cursor, errors.Wrapf(errors.ErrPaginationIncomplete, "%s: negative total %d", name, p.Total)
	}
	if cursor.PageSize <= 0 && cursor.Total > len(p.Events) {
		return cursor, errors.Wrapf(errors.ErrPaginationIncomplete,
			"%s: pagesize %d with total %d", name, p.PageSize, p.Total)
	}
	if cursor.PageSize <= 0 {
		// todo cabe en la primera página
		cursor.PageSize = cursor.Total
	}
	return cursor, nil
}

// fetchPages pide las páginas indicadas con como mucho pageWorkers en vuelo.
func (s *Source) fetchPages(ctx context.Context, host domain.Host, pages []int) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pageWorkers)

	var (
		mu    sync.Mutex
		names []string
	)
	for _, n := range pages {
		n := n
		g.Go(func() error {
			p, err := s.fetchPage(gctx, host, n)
			if err != nil {
				return errors.Join(errors.ErrPaginationIncomplete, errors.Wrapf(err, "page %d", n))
			}
			mu.Lock()
			names = append(names, p.Events...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return names, nil
}

// fetchPage pide una página; n == 0 es la primera, sin parámetro page.
func (s *Source) fetchPage(ctx context.Context, host domain.Host, n int) (page, error) {
	url := fmt.Sprintf("%s/v2/query/domains/subdomain/%s", s.baseURL, host)
	if n > 0 {
		url = fmt.Sprintf("%s?page=%d", url, n)
	}

	var p page
	body, err := s.client.Fetch(ctx, url, map[string]string{"X-Key": s.token})
	if err != nil {
		return p, errors.Wrap(err, name)
	}
	if err := common.DecodeJSON(body, &p); err != nil {
		return p, errors.Protocol(err, name)
	}
	return p, nil
}
