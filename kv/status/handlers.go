package status

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/unrolled/render"
)

// Status is the body of GET /status.
type Status struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

type statusHandler struct {
	store *transaction.Store
	rd    *render.Render
}

func newStatusHandler(store *transaction.Store, rd *render.Render) *statusHandler {
	return &statusHandler{
		store: store,
		rd:    rd,
	}
}

func (h *statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.rd.JSON(w, http.StatusOK, Status{
		Status:         "ok",
		ActiveSessions: h.store.ActiveSessions(),
	})
}

// KeyValue is the body of GET /api/v1/kv/{key}.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type kvHandler struct {
	committed storage.Storage
	rd        *render.Render
}

func newKVHandler(committed storage.Storage, rd *render.Render) *kvHandler {
	return &kvHandler{
		committed: committed,
		rd:        rd,
	}
}

// List returns every committed key/value pair.
func (h *kvHandler) List(w http.ResponseWriter, r *http.Request) {
	h.rd.JSON(w, http.StatusOK, storage.Snapshot(h.committed))
}

func (h *kvHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	value, ok := h.committed.Get(key)
	if !ok {
		h.rd.JSON(w, http.StatusNotFound, "key not set")
		return
	}
	h.rd.JSON(w, http.StatusOK, KeyValue{Key: key, Value: value})
}
