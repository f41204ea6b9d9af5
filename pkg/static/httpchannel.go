package static

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// responseChannel adapts an http.ResponseWriter to Channel.
type responseChannel struct {
	w http.ResponseWriter
	r *http.Request

	mu          sync.Mutex
	status      int
	wroteHeader bool
	finished    bool
	producer    Producer
}

func newResponseChannel(w http.ResponseWriter, r *http.Request) *responseChannel {
	return &responseChannel{w: w, r: r, status: http.StatusOK}
}

func (c *responseChannel) Request() *http.Request { return c.r }

func (c *responseChannel) SetStatus(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.wroteHeader {
		c.status = code
	}
}

func (c *responseChannel) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wroteHeader {
		return
	}
	if value == "" {
		c.w.Header().Del(key)
		return
	}
	c.w.Header().Set(key, value)
}

func (c *responseChannel) AddHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wroteHeader {
		return
	}
	c.w.Header().Add(key, value)
}

func (c *responseChannel) SetLastModified(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	t = t.UTC().Truncate(time.Second)
	c.SetHeader("Last-Modified", t.Format(http.TimeFormat))

	ims := c.r.Header.Get("If-Modified-Since")
	if ims == "" {
		return false
	}
	since, err := http.ParseTime(ims)
	if err != nil || t.After(since) {
		return false
	}
	c.SetStatus(http.StatusNotModified)
	return true
}

func (c *responseChannel) Write(p []byte) error {
	c.mu.Lock()
	c.writeHeaderLocked()
	c.mu.Unlock()

	_, err := c.w.Write(p)
	return err
}

func (c *responseChannel) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeHeaderLocked()
	c.finished = true
}

func (c *responseChannel) RegisterProducer(p Producer) {
	c.mu.Lock()
	c.producer = p
	c.mu.Unlock()
}

func (c *responseChannel) UnregisterProducer() {
	c.mu.Lock()
	c.producer = nil
	c.mu.Unlock()
}

func (c *responseChannel) writeHeaderLocked() {
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true
	c.w.WriteHeader(c.status)
}

// current returns the registered producer while the response is open.
func (c *responseChannel) current() Producer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return nil
	}
	return c.producer
}

func (c *responseChannel) statusCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Serve renders res onto w and drives any producer it registers until
// the response is finished or the request context ends. It returns the
// status code of the response.
func Serve(w http.ResponseWriter, r *http.Request, res Resource) (int, error) {
	ch := newResponseChannel(w, r)

	status, err := res.Render(ch)
	if err != nil {
		return ch.statusCode(), err
	}
	if status == Complete {
		ch.Finish()
		return ch.statusCode(), nil
	}

	ctx := r.Context()
	stopOnDone := context.AfterFunc(ctx, func() {
		if p := ch.current(); p != nil {
			p.Stop()
		}
	})
	defer stopOnDone()

	for ctx.Err() == nil {
		p := ch.current()
		if p == nil {
			break
		}
		p.Resume()
	}

	// A producer still registered here lost its client.
	if p := ch.current(); p != nil {
		p.Stop()
	}
	return ch.statusCode(), nil
}
