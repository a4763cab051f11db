package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/contract"
	toolx "github.com/tanpawarit/Chative-Sales-Call-Agent/agent/tool"
)

const maxToolBodyBytes = 64 << 10

type CallService interface {
	contractx.ToolGateway
	Inspect(ctx context.Context, callID string) (contractx.CallView, error)
	End(ctx context.Context, callID string) (contractx.CallView, error)
	Len() int
}

type CallLauncher interface {
	Launch(ctx context.Context, req contractx.LaunchRequest) (contractx.LaunchResponse, error)
}

func HealthCheck(calls CallService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "live_calls": calls.Len()})
	}
}

func HandleLaunch(launcher CallLauncher) gin.HandlerFunc {
	return func(c *gin.Context) {
		if launcher == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "call launching is not configured"})
			return
		}

		var req contractx.LaunchRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}

		resp, err := launcher.Launch(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func HandleInspect(calls CallService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := calls.Inspect(c.Request.Context(), c.Param("callId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func HandleEnd(calls CallService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := calls.End(c.Request.Context(), c.Param("callId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// HandleTool answers a tool callback with the plain-text payload the voice
// model reads back.
func HandleTool(calls CallService) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("tool")
		if !toolx.Known(name) {
			c.String(http.StatusNotFound, "unknown tool %q", name)
			return
		}

		args := map[string]any{}
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxToolBodyBytes))
		if err != nil {
			c.String(http.StatusBadRequest, "read request body: %v", err)
			return
		}
		if len(strings.TrimSpace(string(raw))) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				c.String(http.StatusBadRequest, "invalid tool arguments: %v", err)
				return
			}
		}

		out, err := calls.HandleTool(c.Request.Context(), contractx.ToolRequest{
			CallID: c.Query(toolx.CallIDParam),
			Tool:   name,
			Args:   args,
		})
		if err != nil {
			msg := out.Error
			if msg == "" {
				msg = err.Error()
			}
			c.String(statusFor(err), "%s", msg)
			return
		}
		c.String(http.StatusOK, "%s", out.Result)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contractx.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, contractx.ErrCallNotFound), errors.Is(err, contractx.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, contractx.ErrCallExists):
		return http.StatusConflict
	case errors.Is(err, contractx.ErrCallSetup):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evt := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("call_id", firstNonEmpty(c.Param("callId"), c.Query(toolx.CallIDParam))).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
