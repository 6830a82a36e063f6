package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("catalog", NewScopedAPI("client", rec))

	scoped.ReportBroken("search-authors", "param")
	scoped.ReportWarning("get-book-availability")
	scoped.ReportCount("results", 3)

	require.Equal(t, "client: catalog: search-authors", rec.Reports("broken")[0].Id)
	require.Equal(t, []any{"param"}, rec.Reports("broken")[0].Params)
	require.True(t, rec.Has("warning", "get-book-availability"))
	require.Equal(t, []any{int64(3)}, rec.Reports("count")[0].Params)
	require.Len(t, rec.Reports(""), 3)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "parislib-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestInstrumentResty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec, nil)

	_, err := client.R().SetContext(context.Background()).Get(srv.URL)
	require.NoError(t, err)

	require.True(t, rec.Has("debug", report_resty_request))
	require.True(t, rec.Has("debug", report_resty_response))
	require.Empty(t, rec.Reports("warning"))
}

func TestInstrumentRestyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec, nil)

	_, err := client.R().SetContext(context.Background()).Get(url)
	require.Error(t, err)
	require.True(t, rec.Has("warning", report_resty_response))
}

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func TestInstrumentRestyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog", "yes")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	out := &memoryOutput{}
	client := resty.New()
	InstrumentResty(client, &Recorder{}, out)

	_, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(`{"term":"Hugo"}`)).
		Post(srv.URL + "/search")
	require.NoError(t, err)
	_, err = client.R().Get(srv.URL + "/page")
	require.NoError(t, err)

	require.Len(t, out.messages, 2)

	post := out.messages["1"]
	require.Contains(t, post, "POST "+srv.URL+"/search")
	require.Contains(t, post, "Content-Type: application/json")
	require.Contains(t, post, `{"term":"Hugo"}`)
	require.Contains(t, post, "202")
	require.Contains(t, post, "X-Catalog: yes")
	require.Contains(t, post, `{"success":true}`)

	get := out.messages["2"]
	require.Contains(t, get, "GET "+srv.URL+"/page")
	require.Contains(t, get, "<NO BODY>")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("7", "contents")
	written, err := os.ReadFile(filepath.Join(dir, "7.txt"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(written))
}
