/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"net/http"
	"time"

	"ledger-core-go/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface of the ledger.
func NewRouter(s *LedgerService, cfg models.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withRequestContext)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(withConcurrencyLimit(cfg.MaxInflight))

	h := &handlers{svc: s, timeout: cfg.RequestTimeout}

	r.Get("/healthz", h.healthz)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.createAccount)
		r.Get("/{id}", h.getAccount)
		r.Get("/{id}/balance", h.getBalance)
		r.Get("/{id}/entries", h.listEntries)
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Post("/deposit", h.deposit)
		r.Post("/transfer", h.transfer)
		r.Get("/{id}", h.getEntry)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

type handlers struct {
	svc     *LedgerService
	timeout time.Duration
}

// requestCtx bounds a handler's work by the configured request timeout.
func (h *handlers) requestCtx(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestCtx(r)
	defer cancel()

	if err := h.svc.HealthCheck(ctx); err != nil {
		writeErr(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
