package static

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
)

// Redirect is a 301 response pointing at URL.
type Redirect string

func (u Redirect) Render(ch Channel) (RenderStatus, error) {
	target := string(u)
	body := fmt.Sprintf("<html>\n  <head><meta http-equiv=\"refresh\" content=\"0;URL=%[1]s\"></head>\n  <body bgcolor=\"#FFFFFF\" text=\"#000000\">\n    <a href=\"%[1]s\">click here</a>\n  </body>\n</html>\n",
		html.EscapeString(target))

	ch.SetStatus(http.StatusMovedPermanently)
	clearEntityHeaders(ch)
	ch.SetHeader("Location", target)
	ch.SetHeader("Content-Type", "text/html; charset=utf-8")
	ch.SetHeader("Content-Length", strconv.Itoa(len(body)))
	if ch.Request().Method == http.MethodHead {
		return Complete, nil
	}
	return Complete, ch.Write([]byte(body))
}

// addSlash rebuilds the request URL with a trailing slash on its path.
// The query string is dropped.
func addSlash(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.EscapedPath() + "/"
}
