// Package pkg provides the libraries behind pydocscraper.
//
// # Overview
//
// pydocscraper reads docs.python.org and peps.python.org and turns what it
// finds into small tables. The pkg directory is organized into three areas:
//
//  1. Scraping: [pep] reconciles the PEP index with the PEP pages, [docs]
//     implements the what's-new, latest-versions and download modes.
//  2. Infrastructure: [httputil] fetches pages, [htmlutil] queries them,
//     [cache] stores responses, [config] loads settings, [output] writes
//     results, [observability] carries progress hooks.
//  3. Shared: [errors] defines coded errors, [buildinfo] the version.
//
// # Data Flow
//
//	docs.python.org / peps.python.org
//	         ↓
//	    [httputil] Fetcher (single GET, cached)
//	         ↓
//	    [htmlutil] required-element lookups
//	         ↓
//	    [pep] Reconciler / [docs] Scraper
//	         ↓
//	    [output] Sink (stdout, pretty table, CSV)
//
// # Quick Start
//
//	store, _ := cache.NewFileCache(dir)
//	fetcher := httputil.NewFetcher(store, httputil.Options{})
//	r, _ := pep.NewReconciler(fetcher, pep.Options{IndexURL: "https://peps.python.org/"})
//	report, err := r.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	report.Log(logger)
//	sink := output.NewSink(os.Stdout, "results", logger)
//	return sink.Emit("pep", report.Table(), output.FormatPretty)
package pkg
