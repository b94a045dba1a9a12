package http

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "twpulse/internal/errors"
	"twpulse/internal/middleware"
	"twpulse/pkg/contracts/domain"
)

// clientIDPattern bounds the watchlist key space. Client IDs are opaque
// browser-generated identifiers, never user display names.
var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// CardsHandler serves the card list and the per-client watchlist with
// RFC 7807 error responses.
type CardsHandler struct {
	service      CardServiceInterface
	validation   *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCardsHandler creates a new cards handler
func NewCardsHandler(service CardServiceInterface, validation *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CardsHandler {
	return &CardsHandler{
		service:      service,
		validation:   validation,
		logger:       logger.With(slog.String("component", "cards_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the card and watchlist routes
func (h *CardsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/cards", h.GetCards)

	r.Route("/watchlist", func(r chi.Router) {
		r.Get("/", h.GetWatchlist)
		r.Put("/", h.PutWatchlist)
		r.Delete("/", h.DeleteWatchlist)
	})

	return r
}

// clientID extracts and validates the client query parameter.
func (h *CardsHandler) clientID(w http.ResponseWriter, r *http.Request) (string, bool) {
	client := r.URL.Query().Get("client")
	if client == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("client", "Client identifier is required"))
		return "", false
	}
	if !clientIDPattern.MatchString(client) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("client", "Client identifier must be 1-64 characters of [A-Za-z0-9_-]"))
		return "", false
	}
	return client, true
}

// GetCards handles GET /api/cards?client=<id>
func (h *CardsHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	client, ok := h.clientID(w, r)
	if !ok {
		return
	}

	list, err := h.service.Cards(r.Context(), client)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "card list build failed",
			slog.String("client", client),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, list)
}

// watchlistResponse is the body for all watchlist endpoints.
type watchlistResponse struct {
	Client  string            `json:"client"`
	Tickers []domain.TickerID `json:"tickers"`
}

// GetWatchlist handles GET /api/watchlist?client=<id>
func (h *CardsHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	client, ok := h.clientID(w, r)
	if !ok {
		return
	}

	tickers, err := h.service.Watchlist(r.Context(), client)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if tickers == nil {
		tickers = []domain.TickerID{}
	}

	render.JSON(w, r, watchlistResponse{Client: client, Tickers: tickers})
}

// putWatchlistRequest is the PUT /api/watchlist body. The tags bound the raw
// payload shape; format-invalid, duplicate and fixed-universe tickers inside
// an acceptable payload are dropped rather than rejected, and the response
// carries the accepted set.
type putWatchlistRequest struct {
	Tickers []string `json:"tickers" validate:"max=100,dive,max=16"`
}

// PutWatchlist handles PUT /api/watchlist?client=<id>
func (h *CardsHandler) PutWatchlist(w http.ResponseWriter, r *http.Request) {
	client, ok := h.clientID(w, r)
	if !ok {
		return
	}

	var req putWatchlistRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validation.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	accepted, err := h.service.ApplyWatchlist(r.Context(), client, req.Tickers)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "watchlist apply failed",
			slog.String("client", client),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if accepted == nil {
		accepted = []domain.TickerID{}
	}

	render.JSON(w, r, watchlistResponse{Client: client, Tickers: accepted})
}

// DeleteWatchlist handles DELETE /api/watchlist?client=<id>
func (h *CardsHandler) DeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	client, ok := h.clientID(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearWatchlist(r.Context(), client); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
