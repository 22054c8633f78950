// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/diagnostics"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

// errBadParam marks malformed query parameters.
var errBadParam = errors.New("invalid query parameter")

type Handler struct {
	svc           qr.Service
	diag          *diagnostics.Diagnostics
	logger        *zap.Logger
	defaultWidth  int
	defaultHeight int
}

// NewHandler creates a new HTTP handler. diag may be nil to disable the debug endpoints.
func NewHandler(svc qr.Service, diag *diagnostics.Diagnostics, logger *zap.Logger, defaultWidth, defaultHeight int) *Handler {
	return &Handler{
		svc:           svc,
		diag:          diag,
		logger:        logger,
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

// Routes builds the router with middleware applied.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(RequestLoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Route("/api/v1/qr/qrcode", func(r chi.Router) {
		r.Get("/png", h.generate(qr.Image, false, "inline; filename=qrcode.png"))
		r.Get("/pdf", h.generate(qr.Document, false, "attachment; filename=qrcode.pdf"))
		r.Get("/png/logo", h.generate(qr.Image, true, "inline; filename=qrcode-with-logo.png"))
		r.Get("/pdf/logo", h.generate(qr.Document, true, "attachment; filename=qrcode-with-logo.pdf"))

		if h.diag != nil {
			r.Get("/debug/logo", h.DebugLogo)
			r.Get("/test/logo", h.TestLogo)
			r.Get("/test/visible-logo", h.VisibleLogo)
			r.Get("/test/colors", h.ColorTest)
		}
	})
	return r
}

// generate handles GET requests with text, width, height and, for logo routes, withLogo.
func (h *Handler) generate(kind qr.OutputKind, logoRoute bool, disposition string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := h.parseRequest(r, kind, logoRoute)
		if err != nil {
			h.logger.Warn("Invalid QR code request parameters",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.Error(err),
			)
			h.writeError(w, http.StatusBadRequest, "Bad request", err.Error())
			return
		}

		out, err := h.svc.Generate(r.Context(), req)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", kind.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(len(out)))
		w.Header().Set("Content-Disposition", disposition)
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(out); err != nil {
			h.logger.Error("failed to write response",
				zap.Error(err),
				zap.Int("output_size", len(out)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}
	}
}

func (h *Handler) parseRequest(r *http.Request, kind qr.OutputKind, logoRoute bool) (qr.Request, error) {
	q := r.URL.Query()
	if !q.Has("text") {
		return qr.Request{}, fmt.Errorf("%w: text is required", errBadParam)
	}
	width, err := intParam(q.Get("width"), h.defaultWidth)
	if err != nil {
		return qr.Request{}, fmt.Errorf("%w: width: %v", errBadParam, err)
	}
	height, err := intParam(q.Get("height"), h.defaultHeight)
	if err != nil {
		return qr.Request{}, fmt.Errorf("%w: height: %v", errBadParam, err)
	}
	includeLogo := false
	if logoRoute {
		includeLogo = true
		if v := q.Get("withLogo"); v != "" {
			if includeLogo, err = strconv.ParseBool(v); err != nil {
				return qr.Request{}, fmt.Errorf("%w: withLogo: %v", errBadParam, err)
			}
		}
	}
	return qr.Request{
		Text:        q.Get("text"),
		Width:       width,
		Height:      height,
		IncludeLogo: includeLogo,
		Kind:        kind,
	}, nil
}

func intParam(v string, fallback int) (int, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if qr.IsClientError(err) {
		h.logger.Warn("QR code request rejected",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		h.writeError(w, http.StatusBadRequest, "Bad request", err.Error())
		return
	}
	h.logger.Error("failed to generate QR code",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
		zap.String("remote_addr", r.RemoteAddr),
	)
	h.writeError(w, http.StatusInternalServerError, "Internal server error",
		"An unexpected error occurred while processing your request")
}

func (h *Handler) writeError(w http.ResponseWriter, status int, title, message string) {
	h.writeJSON(w, status, map[string]string{"error": title, "message": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// HealthCheck handles GET /health requests for liveness/readiness probes.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DebugLogo reports where the logo was looked for.
func (h *Handler) DebugLogo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.diag.LogoStatus(r.Context()))
}

// TestLogo renders a known payload with the logo and reports the outcome.
func (h *Handler) TestLogo(w http.ResponseWriter, r *http.Request) {
	report := h.diag.SelfTest(r.Context())
	status := http.StatusOK
	if report.Status != "success" {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, report)
}

// ColorTest renders a branded code with the logo at 400x400 unless told otherwise.
func (h *Handler) ColorTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	width, err := intParam(q.Get("width"), 400)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Bad request", "width must be an integer")
		return
	}
	height, err := intParam(q.Get("height"), 400)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Bad request", "height must be an integer")
		return
	}

	out, err := h.diag.ColorTest(r.Context(), q.Get("text"), width, height)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline; filename=kcare-color-test.png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		h.logger.Error("failed to write response", zap.Error(err), zap.Int("output_size", len(out)))
	}
}

// VisibleLogo renders a code with a highlighted oversized badge.
func (h *Handler) VisibleLogo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")
	if text == "" {
		text = "TEST LOGO VISIBILITY"
	}
	width, err := intParam(q.Get("width"), 400)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Bad request", "width must be an integer")
		return
	}
	height, err := intParam(q.Get("height"), 400)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Bad request", "height must be an integer")
		return
	}

	png, err := h.diag.VisibleLogo(r.Context(), text, width, height)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline; filename=test-qr-visible-logo.png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
