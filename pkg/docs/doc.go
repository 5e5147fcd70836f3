// Package docs scrapes docs.python.org.
//
// A [Scraper] implements three of the pydocscraper modes:
//
//   - [Scraper.WhatsNew] lists every "What's New in Python" article with its
//     title and editor line.
//   - [Scraper.LatestVersions] reads the version switcher in the sidebar.
//   - [Scraper.Download] saves the A4 PDF archive of the documentation.
//
// All pages go through a [Fetcher], normally an [*httputil.Fetcher], so
// responses are cached and errors carry the codes from pkg/errors.
package docs
