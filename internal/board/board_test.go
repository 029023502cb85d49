package board

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overviewHTML = `<html><head><style>.x{color:red}</style></head><body>
<div class="heading--banner">
  Software Developer   TAGS
</div>
<div>Job Description
   Build   APIs in Go.
Targeted Clusters Tech</div>
<script>var tracking = true;</script>
</body></html>`

func TestParseOverview(t *testing.T) {
	got := ParseOverview(overviewHTML)

	assert.Equal(t, "Software Developer", got.Title)
	assert.Contains(t, got.Text, "Job Description Build APIs in Go. Targeted Clusters Tech")
	assert.NotContains(t, got.Text, "tracking")
	assert.NotContains(t, got.Text, "color:red")
	assert.NotContains(t, got.Text, "  ")
}

func TestParseOverview_NoBanner(t *testing.T) {
	got := ParseOverview("<p>Just a posting</p>")

	assert.Equal(t, unknownTitle, got.Title)
	assert.Equal(t, "Just a posting", got.Text)
}

func TestExtractActionToken(t *testing.T) {
	page := `<html><body><script>
function getPostingOverview(id) {
  orbisApp.buildForm({action: 'ABC-123_xyz', postingId: id}).submit();
}
</script></body></html>`

	token, ok := ExtractActionToken(page)
	require.True(t, ok)
	assert.Equal(t, "ABC-123_xyz", token)

	_, ok = ExtractActionToken("<script>function other() { return 1; }</script>")
	assert.False(t, ok)
}

func TestScrapeJobIDs(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "result row inputs",
			html: `<input id="resultRow_410854"><input id="resultRow_123456"><input id="resultRow_410854"><input id="resultRow_abc">`,
			want: []string{"410854", "123456"},
		},
		{
			name: "first table column",
			html: `<table><tr class="table__row--body"><td>111111</td><td>Dev</td></tr>
<tr class="table__row--body"><td>222222</td><td>QA</td></tr></table>`,
			want: []string{"111111", "222222"},
		},
		{
			name: "match column shifts the id column",
			html: `<table><tr><th data-match-column="true">Match</th><th>ID</th></tr>
<tr class="table__row--body"><td>82%</td><td>333333</td></tr></table>`,
			want: []string{"333333"},
		},
		{
			name: "second column fallback",
			html: `<table><tr class="table__row--body"><td>New</td><td>444444</td></tr></table>`,
			want: []string{"444444"},
		},
		{
			name: "six digit cells",
			html: `<table><tr><td>555555</td><td>12345</td><td> 666666 </td><td>555555</td></tr></table>`,
			want: []string{"555555", "666666"},
		},
		{
			name: "nothing",
			html: `<p>No postings</p>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrapeJobIDs(tt.html))
		})
	}
}

func newTestClient(serverURL, token string) *Client {
	return NewClient(ClientOptions{
		OverviewURL:       serverURL + "/overview",
		ActionToken:       token,
		SessionCookie:     "JSESSIONID=s3cr3t",
		RequestsPerSecond: 1000,
	})
}

func TestClient_FetchOverview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/overview", r.URL.Path)
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "JSESSIONID=s3cr3t", r.Header.Get("Cookie"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "tok en", r.PostForm.Get("action"))
		assert.Equal(t, "410854", r.PostForm.Get("postingId"))

		fmt.Fprint(w, overviewHTML)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL, "tok en").FetchOverview(context.Background(), "410854")

	require.NoError(t, err)
	assert.Equal(t, "410854", got.JobID)
	assert.Equal(t, "Software Developer", got.Overview.Title)
	assert.Equal(t, overviewHTML, got.RawHTML)
}

func TestClient_FetchOverview_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session expired", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "token").FetchOverview(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")

	_, err = newTestClient(srv.URL, "").FetchOverview(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no action token")
}

func TestClient_Discover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		fmt.Fprint(w, `<script>function getPostingOverview(id) { post({action: 'found-token'}); }</script>
<input id="resultRow_100001"><input id="resultRow_100002">`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "")
	ids, err := c.Discover(context.Background(), srv.URL+"/listing")

	require.NoError(t, err)
	assert.Equal(t, []string{"100001", "100002"}, ids)
	assert.Equal(t, "found-token", c.ActionToken())
}

func TestClient_Discover_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Please log in</body></html>`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "").Discover(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action token")
}

type fakeSource struct {
	fail map[string]bool
}

func (f fakeSource) FetchOverview(_ context.Context, jobID string) (*JobOverview, error) {
	if f.fail[jobID] {
		return nil, errors.New("boom " + jobID)
	}
	return &JobOverview{JobID: jobID, Overview: Overview{Title: "Job " + jobID}}, nil
}

func TestFetchAll(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "5"}
	src := fakeSource{fail: map[string]bool{"3": true}}

	var mu sync.Mutex
	var calls, last int
	progress := func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if current > last {
			last = current
		}
		assert.Equal(t, len(ids), total)
	}

	got, errs := FetchAll(context.Background(), src, ids, FetchOptions{Concurrency: 2}, progress)

	require.Len(t, got, 4)
	for i, want := range []string{"1", "2", "4", "5"} {
		assert.Equal(t, want, got[i].JobID)
	}
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "boom 3")
	assert.Equal(t, len(ids)+1, calls)
	assert.Equal(t, len(ids), last)
}

func TestFetchAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, errs := FetchAll(ctx, fakeSource{}, []string{"1", "2"}, FetchOptions{}, nil)

	assert.Empty(t, got)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestReadOverviews(t *testing.T) {
	dir := t.TempDir()

	t.Run("export object", func(t *testing.T) {
		path := filepath.Join(dir, "export.json")
		data := `{"jobOverviews": [
			{"jobId": "410854", "overview": {"Job Title": "Developer", "overview": "Job Description Go Targeted Clusters"}},
			{"jobId": "", "overview": {"Job Title": "No ID"}},
			{"jobId": "410855", "overview": {}, "rawHtml": "<div class=\"heading--banner\">Analyst</div>\n<p>SQL</p>"}
		]}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		got, err := LoadOverviewsFile(path)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Developer", got[0].Overview.Title)
		assert.Equal(t, "Analyst", got[1].Overview.Title)
		assert.Equal(t, "Analyst SQL", got[1].Overview.Text)
	})

	t.Run("write then load", func(t *testing.T) {
		path := filepath.Join(dir, "roundtrip.json")
		in := []JobOverview{{JobID: "1", Overview: Overview{Title: "A", Text: "a"}}}
		require.NoError(t, WriteOverviewsFile(path, in))

		got, err := LoadOverviewsFile(path)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadOverviewsFile(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"jobId": 1`), 0644))

		_, err := LoadOverviewsFile(path)
		assert.Error(t, err)
	})
}
