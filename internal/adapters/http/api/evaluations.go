package api

import (
	"net/http"
	"strings"

	"github.com/okian/fitscore/internal/domain/types"
)

// EvaluationsHandler serves the asynchronous evaluation endpoints.
type EvaluationsHandler struct {
	evals Evaluations
}

// NewEvaluationsHandler creates a new evaluations handler.
func NewEvaluationsHandler(evals Evaluations) *EvaluationsHandler {
	return &EvaluationsHandler{evals: evals}
}

// HandleSubmit handles POST /evaluations. New submissions get 202; a
// duplicate ID is acknowledged with 200 and duplicate=true.
func (h *EvaluationsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_evaluation"
	var req types.SubmitRequest
	if err := decodeJSON(r, op, &req); err != nil {
		fail(r.Context(), w, err)
		return
	}
	ack, err := h.evals.Submit(r.Context(), req.Evaluation())
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	status := http.StatusAccepted
	if ack.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, ack)
}

// HandleGet handles GET /evaluations/{id}.
func (h *EvaluationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_evaluation"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		fail(r.Context(), w, NewKind(op, ErrBadRequest))
		return
	}
	rec, err := h.evals.Evaluation(r.Context(), id)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
