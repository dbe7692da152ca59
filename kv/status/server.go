package status

import (
	"context"
	"net"
	"net/http"

	"github.com/pingcap-incubator/nestkv/kv/storage"
	"github.com/pingcap-incubator/nestkv/kv/transaction"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Server serves the status handler over HTTP.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// Start listens on addr and serves in the background. See NewHandler for the requirements on committed.
func Start(addr string, store *transaction.Store, committed storage.Storage) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Annotatef(err, "listen on %s", addr)
	}
	s := &Server{
		httpServer: &http.Server{Handler: NewHandler(store, committed)},
		listener:   l,
	}
	go func() {
		log.Info("status server listening", zap.String("addr", l.Addr().String()))
		if err := s.httpServer.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Error("status server stopped", zap.Error(err))
		}
	}()
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Close(ctx context.Context) error {
	return errors.Trace(s.httpServer.Shutdown(ctx))
}
