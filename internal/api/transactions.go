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
	"net/http"
	"strings"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/go-chi/chi/v5"
)

func (h *handlers) deposit(w http.ResponseWriter, r *http.Request) {
	var req models.DepositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		writeFailure(w, r, err)
		return
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	result, err := h.svc.engine.Deposit(ctx, req.PayeeId, req.Amount)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *handlers) transfer(w http.ResponseWriter, r *http.Request) {
	var req models.TransferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		writeFailure(w, r, err)
		return
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	result, err := h.svc.engine.Transfer(ctx, req.PayerId, req.PayeeId, req.Amount)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *handlers) getEntry(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeFailure(w, r, store.ErrValidation)
		return
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	entry, err := h.svc.registry.GetEntry(ctx, id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewEntryRecord(*entry))
}
