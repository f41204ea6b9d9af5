package static

import (
	"net/http"
	"strconv"
)

// Data is an in-memory resource with a fixed type.
type Data struct {
	Type string
	Body []byte
}

// NewData returns a resource serving body as typ.
func NewData(body []byte, typ string) *Data {
	return &Data{Type: typ, Body: body}
}

func (d *Data) Render(ch Channel) (RenderStatus, error) {
	ch.SetHeader("Content-Type", d.Type)
	ch.SetHeader("Content-Length", strconv.Itoa(len(d.Body)))
	if ch.Request().Method == http.MethodHead {
		return Complete, nil
	}
	return Complete, ch.Write(d.Body)
}
