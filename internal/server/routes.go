package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"socomec2mqtt/internal/core/domain"
	"socomec2mqtt/pkg/jbus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/status", s.StatusHandler)
	e.GET("/device", s.DeviceInfoHandler)
	e.POST("/command/:name", s.CommandHandler)
	e.PUT("/param/:name", s.SetParamHandler)
	e.POST("/shutdown", s.ShutdownHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

func (s *Server) StatusHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetStatusRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.GetStatusResponse)
	if !ok || response.HasResponseError() {
		return c.String(http.StatusBadGateway, "status: FAIL")
	}
	return c.JSON(http.StatusOK, response.Status)
}

func (s *Server) DeviceInfoHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetDeviceInfoRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.GetDeviceInfoResponse)
	if !ok || response.HasResponseError() {
		return c.String(http.StatusBadGateway, "device: FAIL")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"identity": response.Identity,
		"nominal":  response.Nominal,
		"params":   response.Params,
	})
}

func (s *Server) CommandHandler(c echo.Context) error {
	name := c.Param("name")
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.UPSCommandRequest{Name: name}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.UPSCommandResponse)
	if !ok {
		return c.String(http.StatusBadGateway, "command: FAIL")
	}
	if response.HasResponseError() {
		return commandError(c, response.GetResponseError())
	}
	return c.String(http.StatusOK, "command: OK")
}

func (s *Server) SetParamHandler(c echo.Context) error {
	name := c.Param("name")
	value, err := strconv.Atoi(c.QueryParam("value"))
	if err != nil {
		return c.String(http.StatusBadRequest, "param: invalid value")
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.SetParamRequest{Name: name, Value: value}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.SetParamResponse)
	if !ok {
		return c.String(http.StatusBadGateway, "param: FAIL")
	}
	if response.HasResponseError() {
		return commandError(c, response.GetResponseError())
	}
	return c.JSON(http.StatusOK, response.Params)
}

func (s *Server) ShutdownHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ShutdownRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, err.Error())
	}
	response, ok := res.(domain.ShutdownResponse)
	if !ok || response.HasResponseError() {
		return c.String(http.StatusBadGateway, "shutdown: FAIL")
	}
	return c.String(http.StatusOK, "shutdown: OK")
}

func commandError(c echo.Context, err error) error {
	var verr *jbus.ValidationError
	if errors.Is(err, jbus.ErrUnknownCommand) || errors.Is(err, jbus.ErrUnknownParameter) || errors.As(err, &verr) {
		return c.String(http.StatusBadRequest, err.Error())
	}
	return c.String(http.StatusBadGateway, err.Error())
}
