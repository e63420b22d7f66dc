// Package orcweb is a thin HTTP surface over the ORC reader for interactive
// debugging: it is not a query engine (no joins, no aggregation, no SQL),
// just a way to point a browser or curl at a file and see rows come back.
package orcweb

import (
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Server wires HTTP routes to the reader package. S3 may be nil, in which
// case only ?path= (local file) requests are served.
type Server struct {
	S3 *s3.Client
}

func NewServer(s3Client *s3.Client) *Server {
	return &Server{S3: s3Client}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", handleStatus)
	mux.HandleFunc("/scan", s.handleScan)
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}
