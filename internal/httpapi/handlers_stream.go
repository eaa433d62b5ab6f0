package httpapi

import (
	"bufio"
	"fmt"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"placescout/internal/metrics"
)

// openStreams counts the progress-stream subscriptions being served.
var openStreams atomic.Int64

// streamHandler serves component H's progress stream as
// text/event-stream. fasthttp (fiber's underlying server) exposes SSE
// via SetBodyStreamWriter rather than an http.Flusher, so the
// subscription's Event channel is drained into the stream writer here
// instead of with a net/http-style flusher loop.
func streamHandler(c *fiber.Ctx) error {
	deps := depsFrom(c)
	batchID := c.Params("batchId")

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	ctx := c.Context()

	// *fasthttp.RequestCtx satisfies context.Context (Deadline/Done/Err/Value),
	// so it doubles as the subscription's cancellation signal: Done()
	// fires when the client disconnects.
	events := deps.Stream.Subscribe(ctx, batchID)
	metrics.SetProgressStreamSubscribers(int(openStreams.Add(1)))

	ctx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() { metrics.SetProgressStreamSubscribers(int(openStreams.Add(-1))) }()

		for ev := range events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
