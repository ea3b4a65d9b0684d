package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	snugerrors "github.com/snugunits/snug/internal/errors"
	"github.com/snugunits/snug/internal/evaluator"
	"github.com/snugunits/snug/pkg/quantity"
)

// ParseRequest represents a unit parse request.
type ParseRequest struct {
	Unit string `json:"unit"`
}

// UnitResponse describes a parsed unit expression. Scale is null when it
// overflows, for example after a dozen "Qg" factors.
type UnitResponse struct {
	Unit       string          `json:"unit"`
	Display    string          `json:"display"`
	Dimensions map[string]int8 `json:"dimensions"`
	Scale      *float64        `json:"scale"`
	RequestID  string          `json:"request_id,omitempty"`
}

// QuantityResponse describes a quantity in base units. Value is null when
// the result is not finite (for example after dividing by zero).
type QuantityResponse struct {
	Value      *float64        `json:"value"`
	Unit       string          `json:"unit"`
	Dimensions map[string]int8 `json:"dimensions"`
	Display    string          `json:"display"`
	RequestID  string          `json:"request_id,omitempty"`
}

// ComputeRequest represents a binary operation between two quantities.
type ComputeRequest struct {
	Left  evaluator.Operand `json:"left"`
	Op    string            `json:"op"`
	Right evaluator.Operand `json:"right"`
}

// BatchRequest represents a batch parse request.
type BatchRequest struct {
	Units []string `json:"units"`
}

// BatchItem is one entry of a batch response.
type BatchItem struct {
	Unit       string          `json:"unit"`
	Display    string          `json:"display,omitempty"`
	Dimensions map[string]int8 `json:"dimensions,omitempty"`
	Scale      *float64        `json:"scale,omitempty"`
	Error      string          `json:"error,omitempty"`
	Code       string          `json:"code,omitempty"`
}

// BatchResponse represents a batch parse response.
type BatchResponse struct {
	Results   []BatchItem `json:"results"`
	RequestID string      `json:"request_id"`
}

// UnitHandler serves the parse, quantity, compute and batch endpoints.
type UnitHandler struct {
	evaluator *evaluator.Evaluator
	maxBatch  int
}

// NewUnitHandler creates a new unit handler.
func NewUnitHandler(ev *evaluator.Evaluator, maxBatch int) *UnitHandler {
	if maxBatch <= 0 {
		maxBatch = 1000
	}
	return &UnitHandler{evaluator: ev, maxBatch: maxBatch}
}

// HandleParse handles POST /v1/parse.
func (h *UnitHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	var req ParseRequest
	if !decodePost(w, r, &req, requestID) {
		return
	}

	p, err := h.evaluator.Parse(req.Unit)
	if err != nil {
		writeSnugError(w, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, UnitResponse{
		Unit:       req.Unit,
		Display:    p.Unit.String(),
		Dimensions: p.Unit.Map(),
		Scale:      finite(p.Scale),
		RequestID:  requestID,
	})
}

// HandleQuantity handles POST /v1/quantity.
func (h *UnitHandler) HandleQuantity(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	var req evaluator.Operand
	if !decodePost(w, r, &req, requestID) {
		return
	}

	q, err := h.evaluator.Quantity(req)
	if err != nil {
		writeSnugError(w, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, quantityResponse(q, requestID))
}

// HandleCompute handles POST /v1/compute.
func (h *UnitHandler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	var req ComputeRequest
	if !decodePost(w, r, &req, requestID) {
		return
	}
	if req.Op == "" {
		writeError(w, http.StatusBadRequest, "op is required", requestID)
		return
	}

	q, err := h.evaluator.Compute(req.Left, req.Op, req.Right)
	if err != nil {
		writeSnugError(w, err, requestID)
		return
	}

	writeJSON(w, http.StatusOK, quantityResponse(q, requestID))
}

// HandleBatch handles POST /v1/batch.
func (h *UnitHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	var req BatchRequest
	if !decodePost(w, r, &req, requestID) {
		return
	}
	if len(req.Units) == 0 {
		writeError(w, http.StatusBadRequest, "units is required", requestID)
		return
	}
	if len(req.Units) > h.maxBatch {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch too large: %d units (max %d)", len(req.Units), h.maxBatch), requestID)
		return
	}

	results, err := h.evaluator.ParseBatch(r.Context(), req.Units)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error(), requestID)
		return
	}

	resp := BatchResponse{Results: make([]BatchItem, len(results)), RequestID: requestID}
	for i, res := range results {
		resp.Results[i] = batchItem(res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func batchItem(res evaluator.BatchResult) BatchItem {
	item := BatchItem{Unit: res.Expr}
	if res.Err != nil {
		item.Error = res.Err.Error()
		item.Code = snugerrors.GetCode(res.Err)
		return item
	}
	item.Display = res.Parsed.Unit.String()
	item.Dimensions = res.Parsed.Unit.Map()
	item.Scale = finite(res.Parsed.Scale)
	return item
}

func quantityResponse(q quantity.Quantity, requestID string) QuantityResponse {
	resp := QuantityResponse{
		Unit:       q.Unit.String(),
		Dimensions: q.Unit.Map(),
		Display:    q.String(),
		RequestID:  requestID,
	}
	resp.Value = finite(q.Value)
	return resp
}

// finite returns a pointer to v, or nil when v cannot be encoded as JSON.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// decodePost enforces POST and decodes the JSON body. It writes the error
// response itself and returns false on failure.
func decodePost(w http.ResponseWriter, r *http.Request, dst interface{}, requestID string) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", requestID)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), requestID)
		return false
	}
	return true
}

// writeSnugError maps a structured error onto an HTTP status.
func writeSnugError(w http.ResponseWriter, err error, requestID string) {
	var se *snugerrors.SnugError
	if !errors.As(err, &se) {
		writeError(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}

	status := http.StatusInternalServerError
	switch se.Code {
	case snugerrors.CodeNotFound, snugerrors.CodeInvalidRequest, snugerrors.CodeInvalidDimension:
		status = http.StatusBadRequest
	case snugerrors.CodeIncompatibleUnits:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, ErrorResponse{
		Error:     se.Error(),
		Code:      se.Code,
		Details:   se.Details,
		RequestID: requestID,
	})
}
