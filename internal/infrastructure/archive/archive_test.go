package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/sellerdesk/backend/internal/domain/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRecords struct {
	inserted  []*exchange.Record
	insertErr error
}

func (m *memoryRecords) Insert(_ context.Context, rec *exchange.Record) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, rec)
	return nil
}

func (m *memoryRecords) LatestSuccessful(_ context.Context, storeIdentity, endpoint string) (*exchange.Record, error) {
	var anyStore *exchange.Record
	for i := len(m.inserted) - 1; i >= 0; i-- {
		rec := m.inserted[i]
		if rec.Endpoint != endpoint || !rec.Success {
			continue
		}
		if rec.StoreIdentity == storeIdentity {
			return rec, nil
		}
		if anyStore == nil {
			anyStore = rec
		}
	}
	return anyStore, nil
}

type memoryRegistry struct {
	entries map[string]*exchange.RegistryEntry
	saveErr error
}

func (m *memoryRegistry) Find(_ context.Context, key string) (*exchange.RegistryEntry, error) {
	if entry, ok := m.entries[key]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryRegistry) Save(_ context.Context, entry *exchange.RegistryEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.entries == nil {
		m.entries = make(map[string]*exchange.RegistryEntry)
	}
	m.entries[entry.RegistryKey] = entry
	return nil
}

func newTestArchive(records *memoryRecords, registry *memoryRegistry) *Archive {
	return New(records, registry, zap.NewNop())
}

func TestArchiveRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("archives the record and observes the registry", func(t *testing.T) {
		records := &memoryRecords{}
		registry := &memoryRegistry{}
		a := newTestArchive(records, registry)

		err := a.Record(ctx, exchange.Exchange{
			StoreIdentity: "s1",
			Method:        "POST",
			Endpoint:      "/v3/product/list",
			ResponseBody:  []byte(`{"result":{"items":[{"product_id":1,"offer_id":"A"}]}}`),
			HTTPStatus:    200,
			Success:       true,
		})
		require.NoError(t, err)
		require.Len(t, records.inserted, 1)

		entry := registry.entries["POST /v3/product/list"]
		require.NotNil(t, entry)
		assert.Equal(t, "product", entry.EntityHint)
		assert.Contains(t, entry.Keys(), "offer_id")
		assert.Equal(t, []string{"result.items"}, entry.Paths())
	})

	t.Run("failed exchanges are archived but not inferred from", func(t *testing.T) {
		records := &memoryRecords{}
		registry := &memoryRegistry{}
		a := newTestArchive(records, registry)

		err := a.Record(ctx, exchange.Exchange{
			Method:       "POST",
			Endpoint:     "/v3/product/list",
			ResponseBody: []byte(`{"error":{"product_id":5}}`),
			HTTPStatus:   500,
			Success:      false,
		})
		require.NoError(t, err)
		require.Len(t, records.inserted, 1)

		entry := registry.entries["POST /v3/product/list"]
		require.NotNil(t, entry)
		assert.Empty(t, entry.Keys())
		assert.Equal(t, int64(1), entry.SampleCount)
	})

	t.Run("record insert failure propagates", func(t *testing.T) {
		records := &memoryRecords{insertErr: errors.New("disk full")}
		a := newTestArchive(records, &memoryRegistry{})

		err := a.Record(ctx, exchange.Exchange{Method: "POST", Endpoint: "/x"})
		assert.Error(t, err)
	})

	t.Run("registry failure never fails the archive call", func(t *testing.T) {
		records := &memoryRecords{}
		registry := &memoryRegistry{saveErr: errors.New("constraint")}
		a := newTestArchive(records, registry)

		err := a.Record(ctx, exchange.Exchange{Method: "POST", Endpoint: "/x", Success: true})
		assert.NoError(t, err)
		assert.Len(t, records.inserted, 1)
	})
}

func TestArchiveLatestPayloads(t *testing.T) {
	ctx := context.Background()
	records := &memoryRecords{}
	a := newTestArchive(records, &memoryRegistry{})

	require.NoError(t, a.Record(ctx, exchange.Exchange{
		StoreIdentity: "s1",
		Method:        "POST",
		Endpoint:      "/v3/posting/fbs/list",
		ResponseBody:  []byte(`{"postings":[]}`),
		Success:       true,
	}))

	payloads, err := a.LatestPayloads(ctx, "s1", []string{"/v3/posting/fbs/list", "/v1/warehouse/list"})
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"postings":[]}`), payloads["/v3/posting/fbs/list"])
	_, ok := payloads["/v1/warehouse/list"]
	assert.False(t, ok)
}
