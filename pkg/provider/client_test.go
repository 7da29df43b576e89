package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&ClientConfig{
		Endpoint:         srv.URL,
		Timeout:          2 * time.Second,
		TrustPredicateID: "11",
		TrustObjectID:    "12",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(&ClientConfig{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestGetAccountAtom(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req graphqlRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			// The lookup normalizes the address before querying.
			assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", req.Variables["data"])

			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{
					"atoms": []map[string]any{
						{"term_id": "42", "label": "target.eth", "data": "0xaa"},
					},
				},
			})
		})

		atom, err := c.GetAccountAtom(context.Background(), "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
		require.NoError(t, err)
		assert.Equal(t, "42", atom.ID)
		assert.Equal(t, "target.eth", atom.Label)
	})

	t.Run("Missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"atoms": []any{}},
			})
		})

		_, err := c.GetAccountAtom(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GraphQLError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]any{{"message": "field not found"}},
			})
		})

		_, err := c.GetAccountAtom(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		assert.ErrorIs(t, err, ErrQueryFailed)
	})

	t.Run("HTTPError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.GetAccountAtom(context.Background(), "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		assert.ErrorIs(t, err, ErrQueryFailed)
	})
}

func TestGetTrustTriple(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "11", req.Variables["predicate"])
		assert.Equal(t, "12", req.Variables["object"])
		assert.EqualValues(t, MaxPositionsPerVault, req.Variables["limit"])

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"triples": []map[string]any{{
					"term_id": "t1",
					"subject": map[string]any{"term_id": "s1", "label": "target"},
					"vault": map[string]any{
						"market_cap":     "9000000000000000000",
						"position_count": 2,
						"positions": []map[string]any{
							{"shares": "5000000000000000000", "account": map[string]any{"id": "0xabc", "label": "alice"}},
						},
						"positions_aggregate": map[string]any{
							"aggregate": map[string]any{
								"count": 2,
								"sum":   map[string]any{"shares": "9000000000000000000"},
								"avg":   map[string]any{"shares": "4500000000000000000"},
							},
						},
					},
					"counter_vault": map[string]any{
						"market_cap":     "1000000000000000000",
						"position_count": 1,
					},
				}},
			},
		})
	})

	triple, err := c.GetTrustTriple(context.Background(), "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, err)

	assert.Equal(t, "t1", triple.ID)
	assert.Equal(t, "9000000000000000000", triple.Vault.MarketCap)
	require.Len(t, triple.Vault.Positions, 1)
	assert.Equal(t, "0xabc", triple.Vault.Positions[0].AccountID)
	assert.Equal(t, "alice", triple.Vault.Positions[0].AccountLabel)
	require.NotNil(t, triple.VaultStats)
	assert.Equal(t, 2, triple.VaultStats.Count)
	assert.Equal(t, "9000000000000000000", triple.VaultStats.Sum)
	assert.Nil(t, triple.CounterStats)
	assert.Empty(t, triple.CounterVault.Positions)
}

func TestGetAtomsByAddresses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Mixed-case input queried in both original and lowercased
		// form.
		addrs, ok := req.Variables["addresses"].([]any)
		require.True(t, ok)
		assert.Len(t, addrs, 2)

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"atoms": []map[string]any{
				{"term_id": "1", "label": "alice.eth", "data": "0xabc"},
			}},
		})
	})

	atoms, err := c.GetAtomsByAddresses(context.Background(),
		[]string{"0x2222222222222222222222222222222222222AAA"})
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	assert.Equal(t, "alice.eth", atoms[0].Label)
}
