// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/staranto/memocall/internal/memo"
)

// MetricsServer exposes /metrics and /health for one registry.
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewMetricsServer registers process collectors with reg and binds addr. The
// server is not serving until StartAsync.
func NewMetricsServer(addr string, reg *prometheus.Registry) (*MetricsServer, error) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &MetricsServer{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
	}, nil
}

// Addr is the bound address, useful when addr asked for port 0.
func (s *MetricsServer) Addr() string {
	return s.listener.Addr().String()
}

// StartAsync starts serving in a goroutine.
func (s *MetricsServer) StartAsync() {
	go func() {
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
}

// Stop gracefully stops the server.
func (s *MetricsServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// startMetrics builds cache metrics and, when addr is set, serves them. The
// returned stop function is always safe to call.
func startMetrics(addr string) (*memo.Metrics, func(), error) {
	if addr == "" {
		return nil, func() {}, nil
	}

	reg := prometheus.NewRegistry()
	metrics := memo.NewMetrics("memocall", reg)

	srv, err := NewMetricsServer(addr, reg)
	if err != nil {
		return nil, nil, err
	}
	srv.StartAsync()
	log.Debugf("serving metrics on http://%s/metrics", srv.Addr())

	return metrics, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.WithError(err).Warn("failed to stop metrics server")
		}
	}, nil
}
