package status

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*transaction.Store, storage.Storage) {
	base := storage.Synchronized(storage.NewMemStorageWithData(map[string]string{"foo": "123"}))
	return transaction.NewStore(base), base
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	store, base := newTestStore()
	s := store.NewSession()
	s.Begin()
	h := NewHandler(store, base)

	rec := serve(t, h, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var got Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, Status{Status: "ok", ActiveSessions: 1}, got)
}

func TestKVOnlySeesCommittedData(t *testing.T) {
	store, base := newTestStore()
	h := NewHandler(store, base)

	s := store.NewSession()
	s.Begin()
	s.Set("bar", "456")

	rec := serve(t, h, "/api/v1/kv")
	require.Equal(t, http.StatusOK, rec.Code)
	var all map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Equal(t, map[string]string{"foo": "123"}, all)

	rec = serve(t, h, "/api/v1/kv/bar")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.True(t, s.Commit())
	rec = serve(t, h, "/api/v1/kv/bar")
	require.Equal(t, http.StatusOK, rec.Code)
	var kv KeyValue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kv))
	assert.Equal(t, KeyValue{Key: "bar", Value: "456"}, kv)
}

func TestMetrics(t *testing.T) {
	store, base := newTestStore()
	s := store.NewSession()
	s.Begin()
	s.Set("a", "1")
	s.Commit()

	rec := serve(t, NewHandler(store, base), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nestkv_transaction_total")
}

func TestServer(t *testing.T) {
	store, base := newTestStore()
	srv, err := Start("127.0.0.1:0", store, base)
	require.NoError(t, err)
	defer srv.Close(context.Background())

	resp, err := http.Get("http://" + srv.Addr() + "/api/v1/kv/foo")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"value": "123"`)
}
