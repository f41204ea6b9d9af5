package static

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
)

const (
	notFoundDetail   = "File not found."
	invalidURLDetail = "Invalid request URL."
)

// ErrorPage is a terminal HTML response with a fixed status.
type ErrorPage struct {
	Status int
	Brief  string
	Detail string
}

// NotFoundPage returns the 404 page with the given detail line.
func NotFoundPage(detail string) *ErrorPage {
	return &ErrorPage{Status: http.StatusNotFound, Brief: "No Such Resource", Detail: detail}
}

// ForbiddenPage returns the 403 page.
func ForbiddenPage() *ErrorPage {
	return &ErrorPage{Status: http.StatusForbidden, Brief: "Forbidden Resource", Detail: "Sorry, resource is forbidden."}
}

func (p *ErrorPage) Render(ch Channel) (RenderStatus, error) {
	body := fmt.Sprintf("<html>\n  <head><title>%d - %s</title></head>\n  <body>\n    <h1>%s</h1>\n    <p>%s</p>\n  </body>\n</html>\n",
		p.Status, html.EscapeString(p.Brief), html.EscapeString(p.Brief), html.EscapeString(p.Detail))

	ch.SetStatus(p.Status)
	clearEntityHeaders(ch)
	ch.SetHeader("Content-Type", "text/html; charset=utf-8")
	ch.SetHeader("Content-Length", strconv.Itoa(len(body)))
	if ch.Request().Method == http.MethodHead {
		return Complete, nil
	}
	return Complete, ch.Write([]byte(body))
}

// clearEntityHeaders drops headers describing a file body that will not
// be sent.
func clearEntityHeaders(ch Channel) {
	for _, h := range []string{"Accept-Ranges", "Content-Encoding", "Content-Range", "Last-Modified"} {
		ch.SetHeader(h, "")
	}
}
