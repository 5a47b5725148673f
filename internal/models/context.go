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

package models

import "context"

type requestContextKey struct{}

// RequestContext carries caller metadata through context so the engine can
// attach it to logs and published events without widening its signatures.
type RequestContext struct {
	CorrelationId string // X-Correlation-Id header, generated when absent
	RequestId     string // chi request id
	Source        string // "http", "cli", ...
}

// WithRequestContext attaches caller metadata to a context.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// GetRequestContext retrieves caller metadata from context, or nil if absent.
func GetRequestContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}

// CorrelationId returns the correlation id carried by ctx, or "".
func CorrelationId(ctx context.Context) string {
	if rc := GetRequestContext(ctx); rc != nil {
		return rc.CorrelationId
	}
	return ""
}
