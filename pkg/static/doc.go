// Package static serves a filesystem subtree over HTTP.
//
// A request is answered by walking its path segments from a root [Node]
// with [Node.Child] and rendering the resulting [Resource] onto a
// [Channel]. Short responses (404, 403, 304, redirects, HEAD) complete
// inside Render. File bodies are streamed by a [Transfer], a pull-driven
// producer that the channel resumes until every byte of the response
// window has been written or the client goes away.
//
// # Resolution
//
// Every segment is checked with [IsDangerous] before the filesystem is
// touched. A trailing slash resolves the directory's index file (see
// Options.IndexNames) or, when none exists, a [Listing]. A missing
// segment is retried with each of Options.IgnoredExts appended, so
// "/about" can be answered by "about.html".
//
// # Ranges
//
// A single "bytes=<start>-<end>" range is honored. The end offset is used
// as given: "bytes=0-9" is answered with nine bytes and
// "Content-Range: bytes 0-9/<size>". A malformed Range header is logged
// and the full entity is served instead.
package static
