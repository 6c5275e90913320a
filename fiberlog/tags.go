package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid      = "pid"
	TagStatus   = "status"
	TagLatency  = "latency"
	TagMethod   = "method"
	TagPath     = "path"
	TagRoute    = "route"
	TagIP       = "ip"
	TagUA       = "user_agent"
	TagBytesOut = "bytes_out"
	RequestID   = "request_id"
)

// FuncTag extracts the value of a single log field.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

var tagFuncs = map[string]FuncTag{
	TagPid: func(_ *fiber.Ctx, d *data) interface{} {
		return d.pid
	},
	TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Response().StatusCode()
	},
	TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Path()
	},
	TagRoute: func(c *fiber.Ctx, _ *data) interface{} {
		if r := c.Route(); r != nil {
			return r.Path
		}
		return ""
	},
	TagIP: func(c *fiber.Ctx, _ *data) interface{} {
		return c.IP()
	},
	TagUA: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Get(fiber.HeaderUserAgent)
	},
	TagBytesOut: func(c *fiber.Ctx, _ *data) interface{} {
		return len(c.Response().Body())
	},
	RequestID: func(c *fiber.Ctx, _ *data) interface{} {
		if id := c.Get(fiber.HeaderXRequestID); id != "" {
			return id
		}
		return c.GetRespHeader(fiber.HeaderXRequestID)
	},
}

// getFuncTagMap keeps only the tags requested in cfg, ignoring unknown ones.
func getFuncTagMap(cfg Config) map[string]FuncTag {
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := tagFuncs[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
