package gql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

// Handler serves POST /graphql. The identity middleware runs upstream, so
// resolvers see the authenticated user id (or nothing) in the context.
type Handler struct {
	schema graphql.Schema
}

func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message":"invalid request body","status":400}`, http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
