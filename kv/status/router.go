package status

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
)

const apiPrefix = "/api/v1"

// NewHandler returns the HTTP handler of the status server. Key/value endpoints read committed, the base
// store beneath store, directly. It is read without the store's lock, so it must be safe for concurrent
// use (see storage.Synchronized).
func NewHandler(store *transaction.Store, committed storage.Storage) http.Handler {
	return createRouter(store, committed)
}

func createRouter(store *transaction.Store, committed storage.Storage) *mux.Router {
	rd := render.New(render.Options{
		IndentJSON: true,
	})

	router := mux.NewRouter()
	router.Handle("/status", newStatusHandler(store, rd)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	kvHandler := newKVHandler(committed, rd)
	router.HandleFunc(apiPrefix+"/kv", kvHandler.List).Methods("GET")
	router.HandleFunc(apiPrefix+"/kv/{key}", kvHandler.Get).Methods("GET")
	return router
}
