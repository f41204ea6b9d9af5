package static

// RenderStatus reports whether a response was fully produced by Render.
type RenderStatus int

const (
	// Complete means the response needs no further body. The caller
	// finishes the channel.
	Complete RenderStatus = iota

	// Pending means a producer was registered on the channel and the
	// body will be written as the caller resumes it.
	Pending
)

func (s RenderStatus) String() string {
	switch s {
	case Complete:
		return "complete"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Resource is anything that can answer a request on a channel.
type Resource interface {
	Render(ch Channel) (RenderStatus, error)
}

// Container is a resource with children addressed by path segment.
type Container interface {
	Resource
	Child(segment string) (Resource, error)
}
