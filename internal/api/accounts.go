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
	"fmt"
	"net/http"
	"strconv"

	"ledger-core-go/internal/models"
	"ledger-core-go/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *handlers) createAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
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

	account, err := h.svc.registry.CreateAccount(ctx, req.Name, req.Contact, req.NationalId)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	zap.L().Info("Account registered via API",
		zap.String("account_id", account.Id),
		zap.String("correlation_id", models.CorrelationId(ctx)))
	writeJSON(w, http.StatusCreated, models.NewAccountResponse(account))
}

func (h *handlers) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	account, err := h.svc.registry.GetAccount(ctx, id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewAccountResponse(account))
}

func (h *handlers) getBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	balance, err := h.svc.registry.GetBalance(ctx, id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.BalanceResponse{Balance: balance})
}

func (h *handlers) listEntries(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	entries, err := h.svc.registry.ListEntries(ctx, id, limit, offset)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	records := make([]models.EntryRecord, len(entries))
	for i, entry := range entries {
		records[i] = models.NewEntryRecord(entry)
	}
	writeJSON(w, http.StatusOK, records)
}

func pathUUID(r *http.Request, param string) (string, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s must be a valid UUID", store.ErrValidation, param)
	}
	return id.String(), nil
}

// queryInt returns 0 when the parameter is absent.
func queryInt(r *http.Request, param string) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", store.ErrValidation, param)
	}
	return n, nil
}
