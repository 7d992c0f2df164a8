package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SymbolicOp selects the CAS operation applied to an expression.
type SymbolicOp string

const (
	OpSimplify      SymbolicOp = "simplify"
	OpExpand        SymbolicOp = "expand"
	OpFactor        SymbolicOp = "factor"
	OpSolve         SymbolicOp = "solve"
	OpDifferentiate SymbolicOp = "differentiate"
	OpIntegrate     SymbolicOp = "integrate"
)

// SymbolicResult is the outcome of a symbolic evaluation. Both fields are
// empty strings (not nulls) on the blank-input path — see the package doc
// for why this differs from NumericResult.
type SymbolicResult struct {
	Result string `json:"result"`
	Error  string `json:"error"`
}

// Symbolic is a request/response adapter to an external CAS engine spoken
// to over HTTP. The engine is a black box: one expression in, one
// formatted expression or error message out.
type Symbolic struct {
	url    string
	client *http.Client
}

// NewSymbolic creates the adapter. If client is nil a default client with
// a 10s timeout is used.
func NewSymbolic(url string, client *http.Client) *Symbolic {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Symbolic{url: url, client: client}
}

type symbolicRequest struct {
	Command    string `json:"command"`
	Expression string `json:"expression"`
	Variable   string `json:"variable,omitempty"`
}

// Evaluate runs one expression through the engine. The variable is
// meaningful only for solve/differentiate/integrate and defaults to "x".
// Unknown operations fall back to plain simplification. Blank input yields
// {"", ""}.
func (s *Symbolic) Evaluate(ctx context.Context, expression string, op SymbolicOp, variable string) SymbolicResult {
	if strings.TrimSpace(expression) == "" {
		return SymbolicResult{}
	}
	if variable == "" {
		variable = "x"
	}

	req := symbolicRequest{Expression: expression}
	switch op {
	case OpExpand:
		req.Command = "expand"
	case OpFactor:
		req.Command = "factor"
	case OpSolve:
		req.Command = "solve"
		req.Variable = variable
	case OpDifferentiate:
		req.Command = "diff"
		req.Variable = variable
	case OpIntegrate:
		req.Command = "integrate"
		req.Variable = variable
	case OpSimplify:
		req.Command = "simplify"
	default:
		req.Command = "simplify"
	}

	res, err := s.post(ctx, req)
	if err != nil {
		return SymbolicResult{Error: err.Error()}
	}
	return res
}

func (s *Symbolic) post(ctx context.Context, req symbolicRequest) (SymbolicResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SymbolicResult{}, fmt.Errorf("symbolic: marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return SymbolicResult{}, fmt.Errorf("symbolic: request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return SymbolicResult{}, fmt.Errorf("symbolic: engine unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SymbolicResult{}, fmt.Errorf("symbolic: read: %w", err)
	}
	if resp.StatusCode >= 400 {
		return SymbolicResult{}, fmt.Errorf("symbolic: engine status %d", resp.StatusCode)
	}

	var res SymbolicResult
	if err := json.Unmarshal(data, &res); err != nil {
		return SymbolicResult{}, fmt.Errorf("symbolic: decode: %w", err)
	}
	return res, nil
}
