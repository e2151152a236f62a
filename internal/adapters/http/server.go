package http

import (
	nethttp "net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/restartfu/f2pool-check/internal/app"
	"github.com/restartfu/f2pool-check/internal/domain"
	"github.com/restartfu/f2pool-check/internal/hashrate"
	"github.com/restartfu/f2pool-check/internal/logger"
)

type Server struct {
	service *app.Service
	logger  *logger.Logger
}

func NewServer(service *app.Service, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		service: service,
		logger:  log.Component("http"),
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.GetHealth)
	e.GET("/check", s.GetCheck)
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

type checkQuery struct {
	Coin     string `query:"coin"`
	Account  string `query:"account"`
	Worker   string `query:"worker"`
	Warning  string `query:"warning"`
	Critical string `query:"critical"`
}

type checkResponse struct {
	Status   string   `json:"status"`
	ExitCode int      `json:"exit_code"`
	Message  string   `json:"message"`
	Hashrate *float64 `json:"hashrate,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) GetHealth(ctx echo.Context) error {
	health := s.service.Health()
	return ctx.JSON(nethttp.StatusOK, healthResponse{
		Status: health.Status,
		Time:   health.Time,
	})
}

func (s *Server) GetCheck(ctx echo.Context) error {
	var query checkQuery
	if err := ctx.Bind(&query); err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorResponse{Error: "invalid query"})
	}

	warning, err := hashrate.Parse(query.Warning)
	if err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorResponse{Error: "invalid warning threshold"})
	}
	critical, err := hashrate.Parse(query.Critical)
	if err != nil {
		return ctx.JSON(nethttp.StatusBadRequest, errorResponse{Error: "invalid critical threshold"})
	}

	if ctx.QueryParams().Has("worker") && strings.TrimSpace(query.Worker) == "" {
		return ctx.JSON(nethttp.StatusBadRequest, errorResponse{Error: "worker name must not be empty"})
	}

	result := s.service.Check(ctx.Request().Context(), domain.Params{
		Warning:  warning,
		Critical: critical,
		Coin:     query.Coin,
		Account:  query.Account,
		Worker:   query.Worker,
	})

	response := checkResponse{
		Status:   result.Severity.String(),
		ExitCode: result.ExitCode(),
		Message:  result.Line,
	}
	if result.Hashrate != nil {
		value := result.Hashrate.Value
		response.Hashrate = &value
	}

	status := nethttp.StatusOK
	if domain.KindOf(result.Err) == domain.KindInput {
		status = nethttp.StatusBadRequest
	}
	return ctx.JSON(status, response)
}
