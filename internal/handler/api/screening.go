package api

import (
	"errors"
	"time"

	models "CoinScreen/internal/domain/models"
	domrepo "CoinScreen/internal/domain/repository"
	"CoinScreen/internal/service/metrics"
	"CoinScreen/internal/service/ratelimit"
	"CoinScreen/internal/services/screening"
	"CoinScreen/internal/usecase"
	xhttp "CoinScreen/pkg/http"
	xlogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/queue"
	"CoinScreen/pkg/util"

	"github.com/labstack/echo/v4"
)

// ScreeningHandler implements the Echo-based screening API.
type ScreeningHandler struct {
	logger *xlogger.Logger
	runner *usecase.ScreeningRunner
	qsvc   queue.QueueService
	rl     *ratelimit.Limiter
}

func NewScreeningHandler(logger *xlogger.Logger, runner *usecase.ScreeningRunner) *ScreeningHandler {
	metrics.Register()
	return &ScreeningHandler{logger: logger, runner: runner, rl: ratelimit.New()}
}

// SetQueue enables async run submission.
func (h *ScreeningHandler) SetQueue(q queue.QueueService) { h.qsvc = q }

func (h *ScreeningHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/screening")
	g.POST("/run", h.Run)
	g.GET("/leaderboard", h.Leaderboard)
	g.GET("/statistics", h.Statistics)
}

// Run executes a screening run synchronously, or enqueues it when the
// request asks for async and a queue is wired.
func (h *ScreeningHandler) Run(c echo.Context) error {
	start := time.Now()
	endpoint := "run"
	defer func() { metrics.ScreeningLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RunScreeningRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":run", 3, 1) {
		h.logger.Warn("screening.run rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many requests", 429))
	}

	anchor, ok := util.ParseTime(req.Anchor)
	if req.Anchor != "" && !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid anchor date: %s", req.Anchor))
	}

	if req.Async && h.qsvc != nil {
		if err := h.qsvc.PublishMessage(c.Request().Context(), "screening.run", req); err != nil {
			metrics.ScreeningErrors.WithLabelValues(endpoint).Inc()
			h.logger.Error("screening.run enqueue error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("enqueue failed").WithError(err))
		}
		return xhttp.DataResponse(c, 202, map[string]string{"status": "queued"})
	}

	res, err := h.runner.Run(c.Request().Context(), usecase.RunParams{
		CoinIDs: req.Coins,
		Spec: models.TimeframeSpec{
			Days:      req.Timeframes,
			Direction: domrepo.NormalizeDirection(req.Direction),
			Anchor:    anchor,
		},
		OrderBy: domrepo.NormalizeOrderBy(req.OrderBy),
	})
	if err != nil {
		// An empty universe still carries a diagnostic result worth
		// returning; everything else maps to an API error.
		if errors.Is(err, screening.ErrEmptyUniverse) {
			return xhttp.SuccessResponse(c, res)
		}
		metrics.ScreeningErrors.WithLabelValues(endpoint).Inc()
		if errors.Is(err, screening.ErrInvalidTimeframeSpec) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
		h.logger.Error("screening.run usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("screening run failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

// Leaderboard returns the board of the most recent archived run.
func (h *ScreeningHandler) Leaderboard(c echo.Context) error {
	start := time.Now()
	endpoint := "leaderboard"
	defer func() { metrics.ScreeningLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.runner.Latest(c.Request().Context(), domrepo.NormalizeDirection(req.Direction), util.ParseTimeDefault(req.Anchor, time.Time{}))
	if err != nil {
		metrics.ScreeningErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("screening.leaderboard lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("leaderboard lookup failed").WithError(err))
	}
	if res == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no archived screening run"))
	}
	if req.Limit > 0 && len(res.Leaderboard) > req.Limit {
		res.Leaderboard = res.Leaderboard[:req.Limit]
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

// Statistics returns the run-level distribution figures of the most
// recent archived run.
func (h *ScreeningHandler) Statistics(c echo.Context) error {
	start := time.Now()
	endpoint := "statistics"
	defer func() { metrics.ScreeningLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.StatisticsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.runner.Latest(c.Request().Context(), domrepo.NormalizeDirection(req.Direction), util.ParseTimeDefault(req.Anchor, time.Time{}))
	if err != nil {
		metrics.ScreeningErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("screening.statistics lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("statistics lookup failed").WithError(err))
	}
	if res == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no archived screening run"))
	}
	return xhttp.SuccessResponse(c, res.Statistics)
}
