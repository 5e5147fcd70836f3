package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pydocscraper/pkg/cache"
	"github.com/matzehuels/pydocscraper/pkg/errors"
)

const pepIndex = `<html><body>
<table class="pep-zero-table docutils align-default"><thead><tr><th>Status</th><th>PEP</th></tr></thead><tbody>
<tr><td><abbr title="Standards Track, Final">SF</abbr></td><td><a class="pep reference internal" href="pep-0001/">1</a></td></tr>
<tr><td><abbr title="Standards Track, Deferred">SD</abbr></td><td><a class="pep reference internal" href="pep-0002/">2</a></td></tr>
</tbody></table></body></html>`

func pepPage(status string) string {
	return `<html><body><dl class="rfc2822 field-list simple">` +
		`<dt>Status<span class="colon">:</span></dt><dd>` + status + `</dd></dl></body></html>`
}

const docsIndex = `<html><body><div class="sphinxsidebarwrapper"><ul>
<li><a href="https://docs.python.org/3.13/">Python 3.13 (stable)</a></li>
<li><a href="https://www.python.org/doc/versions/">All versions</a></li>
</ul></div></body></html>`

const downloadPage = `<html><body><table class="docutils"><tr><td>
<a href="archives/python-docs-pdf-a4.zip">Download</a></td></tr></table></body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/peps/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/peps/":
			fmt.Fprint(w, pepIndex)
		case "/peps/pep-0001/":
			fmt.Fprint(w, pepPage("Final"))
		case "/peps/pep-0002/":
			fmt.Fprint(w, pepPage("Active"))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, docsIndex)
	})
	mux.HandleFunc("/docs/download.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, downloadPage)
	})
	mux.HandleFunc("/docs/archives/python-docs-pdf-a4.zip", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("PK\x03\x04"))
	})
	mux.HandleFunc("/broken/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type testRun struct {
	base   string
	config string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// newTestRun writes a config that points both sites at srv and keeps every
// output under a temp dir. extra is appended to the config verbatim.
func newTestRun(t *testing.T, srv *httptest.Server, pepsPath, extra string) *testRun {
	t.Helper()
	base := t.TempDir()
	cfg := fmt.Sprintf(`
[urls]
docs = %q
peps = %q

[paths]
base = %q
%s`, srv.URL+"/docs/", srv.URL+pepsPath, base, extra)
	if !strings.Contains(extra, "[cache]") {
		cfg += "\n[cache]\nbackend = \"none\"\n"
	}
	path := filepath.Join(base, "pydocscraper.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return &testRun{base: base, config: path}
}

func (r *testRun) exec(args ...string) error {
	c := New(&r.stderr, log.InfoLevel)
	c.Stdout = &r.stdout
	defer c.Close()

	root := c.RootCommand()
	root.SetArgs(append(args, "--config", r.config))
	root.SetOut(&r.stdout)
	root.SetErr(&r.stderr)
	return root.ExecuteContext(context.Background())
}

func (r *testRun) logFile(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.base, "logs", "parser.log"))
	require.NoError(t, err)
	return string(data)
}

func TestPEPConsole(t *testing.T) {
	run := newTestRun(t, newSite(t), "/peps/", "")
	require.NoError(t, run.exec("pep"))

	out := run.stdout.String()
	require.True(t, strings.HasPrefix(out, "Status Count\n"), out)
	require.Contains(t, out, "\nFinal 1\n")
	require.Contains(t, out, "\nAny statuses 1\n")
	require.True(t, strings.HasSuffix(out, "Total 2\n"), out)

	logs := run.logFile(t)
	require.Contains(t, logs, "Parser started")
	require.Contains(t, logs, "Mismatched statuses")
	require.Contains(t, logs, "Parser finished")
	require.Contains(t, logs, "run=")
}

func TestPEPReportAfterProgress(t *testing.T) {
	orig := startProgress
	t.Cleanup(func() { startProgress = orig })
	startProgress = func(logger *log.Logger, w io.Writer, verbose bool) func() {
		orig(logger, w, verbose)
		return func() { logger.Info("Progress stopped") }
	}

	run := newTestRun(t, newSite(t), "/peps/", "")
	require.NoError(t, run.exec("pep"))

	logs := run.logFile(t)
	stopped := strings.Index(logs, "Progress stopped")
	report := strings.Index(logs, "Mismatched statuses")
	require.NotEqual(t, -1, stopped, logs)
	require.NotEqual(t, -1, report, logs)
	require.Less(t, stopped, report, "report logged while progress was still shown")
}

func TestPEPFile(t *testing.T) {
	run := newTestRun(t, newSite(t), "/peps/", "")
	require.NoError(t, run.exec("pep", "-o", "file"))
	require.Empty(t, run.stdout.String())

	matches, err := filepath.Glob(filepath.Join(run.base, "results", "pep_*.csv"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "Status,Count\nAccepted,0\n"))
	require.Contains(t, run.logFile(t), "Results saved")
}

func TestLatestVersionsPretty(t *testing.T) {
	run := newTestRun(t, newSite(t), "/peps/", "")
	require.NoError(t, run.exec("latest-versions", "--output", "pretty"))

	out := run.stdout.String()
	require.Contains(t, out, "Documentation link")
	require.Contains(t, out, "https://docs.python.org/3.13/")
	require.Contains(t, out, "stable")
}

func TestDownloadMode(t *testing.T) {
	run := newTestRun(t, newSite(t), "/peps/", "")
	require.NoError(t, run.exec("download"))
	require.Empty(t, run.stdout.String())

	data, err := os.ReadFile(filepath.Join(run.base, "downloads", "python-docs-pdf-a4.zip"))
	require.NoError(t, err)
	require.Equal(t, []byte("PK\x03\x04"), data)
}

func TestModeFailureIsLogged(t *testing.T) {
	run := newTestRun(t, newSite(t), "/broken/", "")
	err := run.exec("pep")
	require.Error(t, err)
	require.True(t, Reported(err))
	require.True(t, errors.Is(err, errors.ErrCodeHTTPStatus))

	logs := run.logFile(t)
	require.Contains(t, logs, "Parser failed")
	require.Contains(t, logs, "mode=pep")
	require.NotContains(t, logs, "Parser finished")
}

func TestInvalidArguments(t *testing.T) {
	srv := newSite(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown mode", []string{"changelog"}, ""},
		{"no mode", []string{}, ""},
		{"two modes", []string{"pep", "download"}, ""},
		{"bad output", []string{"pep", "-o", "xml"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newTestRun(t, srv, "/peps/", "")
			err := run.exec(tt.args...)
			require.Error(t, err)
			require.False(t, Reported(err))
			if tt.code != "" {
				require.True(t, errors.Is(err, tt.code), err)
			}
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	run := newTestRun(t, newSite(t), "/peps/", "\n[log]\nlevel = \"loud\"\n")
	err := run.exec("pep")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestClearCacheFlag(t *testing.T) {
	srv := newSite(t)
	dir := filepath.Join(t.TempDir(), "cache")
	run := newTestRun(t, srv, "/peps/", fmt.Sprintf("\n[cache]\nbackend = \"file\"\ndir = %q\n", dir))

	store, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "stale", []byte("x"), 0))

	require.NoError(t, run.exec("pep", "--clear-cache"))

	_, ok, err := store.Get(ctx, "stale")
	require.NoError(t, err)
	require.False(t, ok)
	require.Contains(t, run.logFile(t), "Cache cleared")
}

func TestCacheSubcommands(t *testing.T) {
	srv := newSite(t)
	dir := filepath.Join(t.TempDir(), "cache")
	run := newTestRun(t, srv, "/peps/", fmt.Sprintf("\n[cache]\nbackend = \"file\"\ndir = %q\n", dir))

	require.NoError(t, run.exec("cache", "path"))
	require.Equal(t, dir+"\n", run.stdout.String())

	store, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))

	run.stdout.Reset()
	require.NoError(t, run.exec("cache", "clear"))
	require.Contains(t, run.stdout.String(), "Cleared 1 cached entries")
	require.Contains(t, run.stdout.String(), "Backend: file")
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	// helper subcommands do not create the log file
	_, err = os.Stat(filepath.Join(run.base, "logs"))
	require.True(t, os.IsNotExist(err))
}

func TestCompletion(t *testing.T) {
	run := newTestRun(t, newSite(t), "/peps/", "")
	require.NoError(t, run.exec("completion", "bash"))
	require.Contains(t, run.stdout.String(), "pydocscraper")
}

func TestVersion(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "pydocscraper version")
}
