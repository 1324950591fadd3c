package gql

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerServeHTTP(t *testing.T) {
	f := newGQLFixture(t)
	h := NewHandler(f.schema)

	req := httptest.NewRequest(http.MethodPost, "/graphql",
		strings.NewReader(`{"query":"query { posts { totalPosts } }"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Posts struct {
				TotalPosts int `json:"totalPosts"`
			} `json:"posts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Data.Posts.TotalPosts)
}

func TestHandlerBadBody(t *testing.T) {
	f := newGQLFixture(t)
	h := NewHandler(f.schema)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerVariables(t *testing.T) {
	f := newGQLFixture(t)
	f.register(t)
	h := NewHandler(f.schema)

	payload := map[string]interface{}{
		"query":     `query($email: String!, $password: String!) { login(email: $email, password: $password) { userId } }`,
		"variables": map[string]interface{}{"email": "a@b.com", "password": "secret"},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(string(raw)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "userId")
	assert.NotContains(t, rec.Body.String(), "errors")
}
