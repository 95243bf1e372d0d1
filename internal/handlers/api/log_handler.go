package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/loginlog"
)

type LogHandler struct {
	pipeline LogPipeline
}

// GetLoginLogs returns the enriched login log report. Query parameters:
// startDate, endDate, email, ipAddress, deviceType, country.
func (h *LogHandler) GetLoginLogs(ctx *fiber.Ctx) error {
	filter := loginlog.ParseFilter(ctx.Queries())
	report, err := h.pipeline.Query(ctx.Context(), filter)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(report))
}

func NewLogHandler(pipeline LogPipeline) *LogHandler {
	return &LogHandler{pipeline: pipeline}
}
