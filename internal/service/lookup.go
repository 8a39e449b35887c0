package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"debarment_service/internal/apperr"
	"debarment_service/internal/auth"
	"debarment_service/internal/browser"
	"debarment_service/internal/models"
	"debarment_service/internal/scraper"
)

const (
	PageLoadTimeout   = 15 * time.Second
	ResultWaitTimeout = 20 * time.Second
)

const (
	MsgMalformedHeader = "Missing or malformed Authorization header"
	MsgExpired         = "Token has expired"
	MsgInvalid         = "Invalid token"
	MsgMissingQuery    = "Falta el parámetro 'nombre'"
	MsgTableNotFound   = "No se encontró la tabla en la página"
	MsgScrapeError     = "Error en scraping"
)

type Lookup struct {
	launcher browser.Launcher
	tokens   *auth.TokenManager
	log      *slog.Logger

	targetURL   string
	loadTimeout time.Duration
	waitTimeout time.Duration
}

func NewLookup(launcher browser.Launcher, tokens *auth.TokenManager, lgr *slog.Logger) *Lookup {
	return &Lookup{
		launcher:    launcher,
		tokens:      tokens,
		log:         lgr,
		targetURL:   scraper.TargetURL,
		loadTimeout: PageLoadTimeout,
		waitTimeout: ResultWaitTimeout,
	}
}

// Authenticate checks the "Authorization: Bearer <token>" header with the
// same secret and claims the credential functions issue tokens with.
func (s *Lookup) Authenticate(headers map[string]string) (*auth.Claims, error) {
	token, err := auth.BearerToken(auth.HeaderValue(headers, "Authorization"))
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, MsgMalformedHeader, err)
	}

	claims, err := s.tokens.ParseJWT(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperr.New(apperr.Unauthorized, MsgExpired, err)
		}
		return nil, apperr.New(apperr.Unauthorized, MsgInvalid, err)
	}

	return claims, nil
}

// LookupDebarredFirms renders the listing in a fresh browser and returns the
// firms whose name contains query. The browser is closed on every path.
func (s *Lookup) LookupDebarredFirms(ctx context.Context, query string) (models.LookupResult, error) {
	const op = "service.LookupDebarredFirms"

	log := s.log.With(slog.String("op", op), slog.String("query", query))

	if query == "" {
		return models.LookupResult{}, apperr.New(apperr.BadRequest, MsgMissingQuery, nil)
	}

	page, err := s.launcher.Launch(ctx)
	if err != nil {
		log.Error("failed to launch browser", slog.Any("error", err))
		return models.LookupResult{}, apperr.New(apperr.Internal, MsgScrapeError, err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("failed to release browser", slog.Any("error", err))
		}
	}()

	log.Debug("loading page", slog.String("url", s.targetURL))
	if err := page.Navigate(ctx, s.targetURL, s.loadTimeout); err != nil {
		log.Error("failed to load page", slog.Any("error", err))
		return models.LookupResult{}, apperr.New(apperr.Internal, MsgScrapeError, err)
	}

	log.Debug("waiting for results table")
	if err := page.WaitForSelector(ctx, scraper.ResultCellSelector, s.waitTimeout); err != nil {
		log.Error("results table did not render", slog.Any("error", err))
		return models.LookupResult{}, apperr.New(apperr.Internal, MsgScrapeError, err)
	}

	html, err := page.Content(ctx)
	if err != nil {
		log.Error("failed to read page content", slog.Any("error", err))
		return models.LookupResult{}, apperr.New(apperr.Internal, MsgScrapeError, err)
	}

	res, err := scraper.ParseDebarredFirms(strings.NewReader(html), query)
	if err != nil {
		log.Error("failed to parse page", slog.Any("error", err))
		return models.LookupResult{}, apperr.New(apperr.Internal, MsgScrapeError, err)
	}

	if !res.Found {
		log.Warn("results table not found")
		return models.LookupResult{
			Hits:       0,
			Resultados: []models.DebarredFirm{},
			Warning:    MsgTableNotFound,
		}, nil
	}

	log.Info("scrape complete", slog.Int("hits", len(res.Firms)))

	return models.LookupResult{
		Hits:       len(res.Firms),
		Resultados: res.Firms,
	}, nil
}
