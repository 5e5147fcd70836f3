// Package httputil provides the HTTP fetcher shared by every scraping mode.
//
// # Overview
//
// [Fetcher] issues exactly one GET per URL through a resty client. There is
// no retry and no backoff: a transport failure is reported immediately.
//
//   - [Fetcher.Get]: raw body, served from the response cache when possible
//   - [Fetcher.Document]: body parsed into a goquery document
//   - [Fetcher.Download]: binary body streamed to a writer, never cached
//
// # Encoding
//
// Bodies are always decoded as UTF-8 regardless of the charset the server
// declares; invalid byte sequences are replaced with U+FFFD before parsing.
//
// # Errors
//
// Failures carry one of three codes from pkg/errors:
//
//   - CONNECTION_ERROR: DNS, timeout, connection reset
//   - EMPTY_RESPONSE: the server answered with an empty body
//   - HTTP_STATUS: the server answered with a non-2xx status
//
// [IsFetchError] reports whether an error is any of them.
//
// # Caching
//
// Responses are stored in a [cache.Cache] keyed by URL. Cache failures never
// fail a fetch; they are logged at debug level and the network is used.
package httputil
