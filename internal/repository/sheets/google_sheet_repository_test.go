package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestRepo(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo, err := New(context.Background(), "sheet-1", nil,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return repo
}

func TestAppendRows(t *testing.T) {
	var (
		path  string
		query string
		body  struct {
			Values [][]interface{} `json:"values"`
		}
	)
	repo := newTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		path, query = r.URL.Path, r.URL.RawQuery
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	})

	err := repo.AppendRows(context.Background(), "Reconciliation!A:K", [][]interface{}{
		{"2025-01-20", "Lanka Auto Diesel", 500},
		{"2025-01-20", "Lanka Super Diesel", ""},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, ":append"), path)
	assert.Contains(t, path, "/spreadsheets/sheet-1/values/")
	assert.Contains(t, query, "valueInputOption=USER_ENTERED")
	require.Len(t, body.Values, 2)
	assert.Equal(t, "Lanka Super Diesel", body.Values[1][1])
}

func TestAppendRows_NothingToDo(t *testing.T) {
	repo := newTestRepo(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})

	require.NoError(t, repo.AppendRows(context.Background(), "Reconciliation!A:K", nil))
	assert.Error(t, repo.AppendRows(context.Background(), "", [][]interface{}{{"x"}}))
}

func TestReadRange(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Reconciliation!A1:A3","values":[["Date"],["2025-01-19"],["2025-01-20"]]}`))
	})

	values, err := repo.ReadRange(context.Background(), "Reconciliation!A:A")
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, "2025-01-20", values[2][0])
}

func TestReadRange_APIError(t *testing.T) {
	repo := newTestRepo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	})

	_, err := repo.ReadRange(context.Background(), "Reconciliation!A:A")
	assert.ErrorContains(t, err, "read range Reconciliation!A:A")
}
