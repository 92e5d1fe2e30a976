package tick

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mend/tickbridge/internal/remote"
)

const entriesXML = `<?xml version="1.0" encoding="UTF-8"?>
<entries type="array">
  <entry>
    <id>101</id>
    <date>2026-03-02</date>
    <client_name>Acme Inc</client_name>
    <project_name>Website</project_name>
    <project_id>55</project_id>
    <task_name>Design</task_name>
    <task_id>9</task_id>
    <notes>homepage mockups</notes>
    <hours>2.5</hours>
    <billed>false</billed>
  </entry>
  <entry>
    <id>102</id>
    <date>2026-03-01</date>
    <client_name>Acme Inc</client_name>
    <project_name>Website</project_name>
    <project_id>55</project_id>
    <task_name>No Task Selected</task_name>
    <task_id>0</task_id>
    <notes></notes>
    <hours>1.25</hours>
    <billed>false</billed>
  </entry>
</entries>`

func newTestClient(srv *httptest.Server) *Client {
	c := New(Credentials{BaseURL: srv.URL, Email: "me@example.com", Password: "secret"})
	c.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestListOpenEntries(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/entries", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(entriesXML))
	}))
	defer srv.Close()

	entries, err := newTestClient(srv).ListOpenEntries(context.Background(), "", "", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.EqualValues(t, 101, entries[0].ID)
	assert.Equal(t, "Acme Inc", entries[0].ClientName)
	assert.Equal(t, "55", entries[0].ProjectID)
	assert.Equal(t, 2.5, entries[0].Hours)
	assert.False(t, entries[0].Billed)

	// credentials ride in the query string
	assert.Equal(t, "me@example.com", gotQuery.Get("email"))
	assert.Equal(t, "secret", gotQuery.Get("password"))

	// server-side filters
	assert.Equal(t, "true", gotQuery.Get("entry_billable"))
	assert.Equal(t, "false", gotQuery.Get("billed"))

	// default window is a 5-year lookback
	assert.Equal(t, "03/15/2021", gotQuery.Get("updated_at"))
	assert.Empty(t, gotQuery.Get("start_date"))
}

func TestListOpenEntriesWithRangeAndProject(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(`<entries type="array"></entries>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListOpenEntries(context.Background(), "55", "03/01/2026", "03/31/2026")
	require.NoError(t, err)

	assert.Equal(t, "55", gotQuery.Get("project_id"))
	assert.Equal(t, "03/01/2026", gotQuery.Get("start_date"))
	assert.Equal(t, "03/31/2026", gotQuery.Get("end_date"))
	assert.Empty(t, gotQuery.Get("updated_at"))
}

func TestSetBilledStatus(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/update_entry", r.URL.Path)
		gotQuery = r.URL.Query()
		// Tick answers update_entry with a bare single-space html body
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(" "))
	}))
	defer srv.Close()

	err := newTestClient(srv).SetBilledStatus(context.Background(), 101, true)
	require.NoError(t, err)
	assert.Equal(t, "101", gotQuery.Get("id"))
	assert.Equal(t, "true", gotQuery.Get("billed"))
}

func TestSetBilledStatusNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such entry", http.StatusNotFound)
	}))
	defer srv.Close()

	err := newTestClient(srv).SetBilledStatus(context.Background(), 999, false)
	require.Error(t, err)
	assert.True(t, remote.IsNotFound(err))
}

func TestUnexpectedContentTypeIsRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>login page</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).ListOpenEntries(context.Background(), "", "", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusOK, remote.Code(err))
}

func TestTransportFailureIsCodeZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(Credentials{BaseURL: srv.URL, Email: "me@example.com", Password: "secret"})
	_, err := c.ListOpenEntries(context.Background(), "", "", "")
	require.Error(t, err)
	assert.Equal(t, 0, remote.Code(err))
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/clients", r.URL.Path)
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(`<clients type="array"></clients>`))
	}))
	defer srv.Close()

	assert.True(t, newTestClient(srv).Login(context.Background()))
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	assert.False(t, newTestClient(srv).Login(context.Background()))
}
