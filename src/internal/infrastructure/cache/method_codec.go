package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shipping"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/store"
)

// methodEntry 快取中的配送方式
type methodEntry struct {
	ID        string              `json:"id"`
	StoreID   string              `json:"store_id"`
	Spec      shipping.MethodSpec `json:"spec"`
	Deleted   bool                `json:"deleted"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func methodKey(storeID store.StoreID) string {
	return "shipping:methods:" + storeID.String()
}

func encodeMethods(methods []*shipping.Method) ([]byte, error) {
	entries := make([]methodEntry, len(methods))
	for i, m := range methods {
		entries[i] = methodEntry{
			ID:        m.ID().String(),
			StoreID:   m.StoreID().String(),
			Spec:      m.Spec(),
			Deleted:   m.IsDeleted(),
			CreatedAt: m.CreatedAt(),
			UpdatedAt: m.UpdatedAt(),
		}
	}
	return json.Marshal(entries)
}

func decodeMethods(data []byte) ([]*shipping.Method, error) {
	var entries []methodEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode cached shipping methods: %w", err)
	}
	methods := make([]*shipping.Method, 0, len(entries))
	for _, e := range entries {
		id, err := shipping.MethodIDFromString(e.ID)
		if err != nil {
			return nil, err
		}
		storeID, err := store.StoreIDFromString(e.StoreID)
		if err != nil {
			return nil, err
		}
		m, err := shipping.ReconstructMethod(id, storeID, e.Spec, e.Deleted, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}
