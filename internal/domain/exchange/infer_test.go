package exchange

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferIdentifierKeys(t *testing.T) {
	t.Run("ranks known identifiers ahead of generic id keys", func(t *testing.T) {
		payload := []byte(`{"result":{"items":[
			{"product_id":1,"offer_id":"A-1","legacy_id":7},
			{"product_id":2,"offer_id":"A-2","legacy_id":8}
		]}}`)
		keys := InferIdentifierKeys(payload)
		require.NotEmpty(t, keys)
		assert.Equal(t, []string{"offer_id", "product_id", "legacy_id"}, keys)
	})

	t.Run("counts sku and posting_number despite missing id suffix", func(t *testing.T) {
		keys := InferIdentifierKeys([]byte(`{"postings":[{"posting_number":"P","products":[{"sku":5}]}]}`))
		assert.Contains(t, keys, "posting_number")
		assert.Contains(t, keys, "sku")
	})

	t.Run("caps the key set", func(t *testing.T) {
		fields := make([]string, 0, 12)
		for i := 0; i < 12; i++ {
			fields = append(fields, fmt.Sprintf("%q:%d", fmt.Sprintf("field_%02d_id", i), i))
		}
		payload := []byte("{" + strings.Join(fields, ",") + "}")
		assert.Len(t, InferIdentifierKeys(payload), MaxIdentifierKeys)
	})

	t.Run("returns nil for malformed or key-free payloads", func(t *testing.T) {
		assert.Nil(t, InferIdentifierKeys([]byte(`{`)))
		assert.Nil(t, InferIdentifierKeys([]byte(`{"name":"x"}`)))
	})
}

func TestInferArrayPaths(t *testing.T) {
	t.Run("records dotted paths to object-bearing arrays", func(t *testing.T) {
		payload := []byte(`{"result":{"items":[{"a":1}],"stocks":[{"b":2}],"ints":[1,2,3]}}`)
		paths := InferArrayPaths(payload)
		assert.Equal(t, []string{"result.items", "result.stocks"}, paths)
	})

	t.Run("walks into elements of a bare array root", func(t *testing.T) {
		paths := InferArrayPaths([]byte(`[{"items":[{"x":1}]}]`))
		assert.Equal(t, []string{"items"}, paths)
	})

	t.Run("ignores arrays of primitives", func(t *testing.T) {
		assert.Empty(t, InferArrayPaths([]byte(`{"values":[1,2,3]}`)))
	})

	t.Run("path appears once even when reached through several elements", func(t *testing.T) {
		payload := []byte(`{"items":[{"rows":[{"a":1}]},{"rows":[{"b":2}]}]}`)
		paths := InferArrayPaths(payload)
		count := 0
		for _, p := range paths {
			if p == "items.rows" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestRegistryEntryObserve(t *testing.T) {
	entry := &RegistryEntry{RegistryKey: "POST /v3/product/list"}

	entry.Observe([]string{"offer_id", "product_id"}, []string{"result.items"}, testTime(t, "2024-03-01T00:00:00Z"))
	assert.Equal(t, []string{"offer_id", "product_id"}, entry.Keys())
	assert.Equal(t, []string{"result.items"}, entry.Paths())
	assert.Equal(t, int64(1), entry.SampleCount)

	// Later observations grow the sets but never reorder existing members.
	entry.Observe([]string{"sku", "offer_id"}, []string{"result.items", "items"}, testTime(t, "2024-03-02T00:00:00Z"))
	assert.Equal(t, []string{"offer_id", "product_id", "sku"}, entry.Keys())
	assert.Equal(t, []string{"result.items", "items"}, entry.Paths())
	assert.Equal(t, int64(2), entry.SampleCount)
	assert.Equal(t, "2024-03-01T00:00:00Z", entry.FirstSeenAt.UTC().Format("2006-01-02T15:04:05Z"))
}

func TestEntityHintForEndpoint(t *testing.T) {
	assert.Equal(t, "product", EntityHintForEndpoint("/v3/product/info/list"))
	assert.Equal(t, "posting", EntityHintForEndpoint("/v3/posting/fbs/list"))
	assert.Equal(t, "", EntityHintForEndpoint("/v1/report/info"))
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
