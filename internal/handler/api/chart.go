package api

import (
	models "SolCharts/internal/domain/models"
	domrepo "SolCharts/internal/domain/repository"
	"SolCharts/internal/service/ratelimit"
	"SolCharts/internal/usecase"
	xhttp "SolCharts/pkg/http"
	xlogger "SolCharts/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartHandler exposes the chart engine over Echo-based HTTP handlers
// following Clean Architecture.
type ChartHandler struct {
	logger          *xlogger.Logger
	sessions        *usecase.Manager
	rl              *ratelimit.Limiter
	pointerCapacity float64
	pointerRefill   float64
}

func NewChartHandler(logger *xlogger.Logger, sessions *usecase.Manager, pointerCapacity, pointerRefill float64) *ChartHandler {
	if pointerCapacity <= 0 {
		pointerCapacity = 30
	}
	if pointerRefill <= 0 {
		pointerRefill = 30
	}
	return &ChartHandler{
		logger:          logger,
		sessions:        sessions,
		rl:              ratelimit.New(),
		pointerCapacity: pointerCapacity,
		pointerRefill:   pointerRefill,
	}
}

func (h *ChartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/chart")
	g.GET("/candles", h.Candles)
	g.GET("/indicators", h.Indicators)
	g.GET("/timeframes", h.Timeframes)
	g.PUT("/:mint/settings", h.UpdateSettings)
	g.GET("/:mint/drawings", h.Drawings)
	g.DELETE("/:mint/drawings", h.ClearDrawings)
	g.POST("/:mint/tool", h.SelectTool)
	g.POST("/:mint/click", h.Click)
	g.POST("/:mint/pointer", h.Pointer)
	g.POST("/:mint/cancel", h.CancelDrawing)
	g.GET("/:mint/stream", h.Stream)
}

// Candles returns the live series snapshot with its display scale. Opening
// a chart for a mint nobody is watching lazily spins its session up.
func (h *ChartHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.sessions.GetOrOpen(c.Request().Context(), req.Mint)
	if err != nil {
		h.logger.Error("chart open error", xlogger.String("mint", req.Mint), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if req.TF != "" {
		if err := s.SetTimeframe(c.Request().Context(), req.TF); err != nil {
			h.logger.Error("timeframe switch error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}

	candles, scale, tf := s.Snapshot()
	if req.Limit > 0 && len(candles) > req.Limit {
		candles = candles[len(candles)-req.Limit:]
	}
	return xhttp.SuccessResponse(c, models.CandlesResponse{
		Mint:      req.Mint,
		Timeframe: string(tf),
		Precision: scale.Precision,
		MinMove:   scale.MinMove,
		Count:     len(candles),
		Candles:   candles,
	})
}

// Indicators returns the overlay series for the toggled-on indicators.
func (h *ChartHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.sessions.GetOrOpen(c.Request().Context(), req.Mint)
	if err != nil {
		h.logger.Error("chart open error", xlogger.String("mint", req.Mint), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	set, toggles := s.Indicators()
	_, _, tf := s.Snapshot()
	return xhttp.SuccessResponse(c, models.IndicatorsResponse{
		Mint:       req.Mint,
		Timeframe:  string(tf),
		Toggles:    toggles,
		Indicators: set,
	})
}

// Timeframes lists the supported candle resolutions.
func (h *ChartHandler) Timeframes(c echo.Context) error {
	return xhttp.SuccessResponse(c, domrepo.Timeframes())
}

// UpdateSettings applies and persists timeframe plus indicator toggles.
func (h *ChartHandler) UpdateSettings(c echo.Context) error {
	req := &models.SettingsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.sessions.GetOrOpen(c.Request().Context(), req.Mint)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	if err := s.SetTimeframe(c.Request().Context(), req.Timeframe); err != nil {
		h.logger.Error("timeframe switch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	s.SetToggles(c.Request().Context(), req.Indicators)
	return xhttp.NoContentResponse(c)
}

// Drawings returns committed annotations plus the live placeholder.
func (h *ChartHandler) Drawings(c echo.Context) error {
	mint := c.Param("mint")
	s, ok := h.sessions.Get(mint)
	if !ok {
		return xhttp.NotFoundResponse(c, "no open chart for mint")
	}
	return xhttp.SuccessResponse(c, models.DrawingsResponse{Mint: mint, Drawings: s.Drawings()})
}

// ClearDrawings removes every annotation on the chart.
func (h *ChartHandler) ClearDrawings(c echo.Context) error {
	mint := c.Param("mint")
	s, ok := h.sessions.Get(mint)
	if !ok {
		return xhttp.NotFoundResponse(c, "no open chart for mint")
	}
	s.ClearDrawings()
	return xhttp.NoContentResponse(c)
}

// SelectTool activates a drawing tool. Switching mid-placement discards the
// half-placed drawing.
func (h *ChartHandler) SelectTool(c echo.Context) error {
	req := &models.ToolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, ok := h.sessions.Get(req.Mint)
	if !ok {
		return xhttp.NotFoundResponse(c, "no open chart for mint")
	}
	s.SelectTool(models.DrawingTool(req.Tool))
	return xhttp.NoContentResponse(c)
}

// Click places a drawing point at a chart-space coordinate.
func (h *ChartHandler) Click(c echo.Context) error {
	req := &models.PointRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, ok := h.sessions.Get(req.Mint)
	if !ok {
		return xhttp.NotFoundResponse(c, "no open chart for mint")
	}
	s.Click(models.ChartPoint{Time: req.Time, Price: req.Price})
	return xhttp.SuccessResponse(c, models.DrawingsResponse{Mint: req.Mint, Drawings: s.Drawings()})
}

// Pointer feeds a pointer move into the two-point preview. Pointer events
// arrive at mouse frequency, so this endpoint is rate limited per mint.
func (h *ChartHandler) Pointer(c echo.Context) error {
	req := &models.PointRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(req.Mint+":pointer", h.pointerCapacity, h.pointerRefill) {
		return xhttp.TooManyRequestsResponse(c)
	}
	s, ok := h.sessions.Get(req.Mint)
	if !ok {
		return xhttp.NotFoundResponse(c, "no open chart for mint")
	}
	s.Pointer(models.ChartPoint{Time: req.Time, Price: req.Price})
	return xhttp.NoContentResponse(c)
}

// CancelDrawing discards an in-progress placement.
func (h *ChartHandler) CancelDrawing(c echo.Context) error {
	mint := c.Param("mint")
	s, ok := h.sessions.Get(mint)
	if !ok {
		return xhttp.NotFoundResponse(c, "no open chart for mint")
	}
	s.CancelDrawing()
	return xhttp.NoContentResponse(c)
}
