package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the ray id.
const HeaderName = "X-Ray-ID"

// LocalsKey is the Fiber locals key read by logger.WithRayID.
const LocalsKey = "ray_id"

// New creates a middleware that tags every request with a ray id.
// An incoming X-Ray-ID header is reused so traces survive proxies.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
