package github

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/BjornMelin/contribux-sub005/gherrors"
	"github.com/BjornMelin/contribux-sub005/outcome"
)

// graphQLEnvelope is the standard GraphQL response shape.
type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"errors"`
}

// GraphQL is the raw escape hatch: it runs one query against the
// GraphQL endpoint, gated by the graphql quota bucket, bypassing the
// read cache. The data payload comes back unparsed.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any) outcome.Outcome[json.RawMessage] {
	payload := map[string]any{"query": query}
	if len(variables) > 0 {
		payload["variables"] = variables
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return outcome.Fail[json.RawMessage](gherrors.Wrap(gherrors.TagValidation, "encode graphql request", err))
	}

	start := c.now()
	st := &dispatchState{}
	result, err := c.fetch(ctx, &call{method: http.MethodPost, path: "/graphql", body: body}, st)
	_, attempts := st.snapshot()
	c.emit(ctx, start, attempts, false, err)
	if err != nil {
		return outcome.Fail[json.RawMessage](err)
	}

	var envelope graphQLEnvelope
	if err := json.Unmarshal(result.Value, &envelope); err != nil {
		return outcome.Fail[json.RawMessage](gherrors.Wrap(gherrors.TagUnknown, "decode graphql response", err))
	}
	if len(envelope.Errors) > 0 {
		e := gherrors.Newf(gherrors.TagValidation, "graphql: %s", envelope.Errors[0].Message)
		e.Status = http.StatusOK
		return outcome.Fail[json.RawMessage](e)
	}
	return outcome.Succeed(envelope.Data)
}
