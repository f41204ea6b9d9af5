package static

import (
	"net/http"
	"time"
)

// Channel is the response side of one request.
//
// Headers and status may be changed until the first Write. The channel
// drives a registered Producer by calling Resume whenever it can accept
// more data, and Stop when the consumer is gone.
type Channel interface {
	// Request returns the request being answered.
	Request() *http.Request

	SetStatus(code int)

	// SetHeader sets a response header. An empty value removes it.
	SetHeader(key, value string)

	// AddHeader appends a value to a response header, keeping earlier ones.
	AddHeader(key, value string)

	// SetLastModified sets Last-Modified and evaluates the request's
	// validators against t. It returns true, with the status set to 304,
	// when the client's copy is current.
	SetLastModified(t time.Time) bool

	Write(p []byte) error

	// Finish marks the response complete.
	Finish()

	RegisterProducer(p Producer)
	UnregisterProducer()
}

// Producer writes a response body in steps requested by a Channel.
type Producer interface {
	// Resume asks for the next chunk.
	Resume()

	// Pause signals the channel cannot take more for now.
	Pause()

	// Stop abandons the response. It is safe to call more than once.
	Stop()
}
