// Package apptest 提供 Application Layer 單元測試用的記憶體倉儲與事務管理器
//
// 倉儲直接保存聚合指標，並另外記錄版本號以模擬樂觀鎖：
// Update 時版本不符返回 shared.ErrConcurrentModification。
package apptest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
)

// Now 測試共用時間（2024-03-15 週五 10:00 JST）
var Now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.FixedZone("JST", 9*60*60))

// Clock 固定時間
func Clock() shared.Clock { return shared.FixedClock{At: Now} }

// ===========================
// TxManager
// ===========================

// TxManager 事務管理器 mock
//
// 直接以 nil TransactionContext 執行 fn；設定 Err 時不執行 fn。
// Retries > 0 時遇到 ErrConcurrentModification 會重新執行 fn。
type TxManager struct {
	Calls    int
	Attempts int
	Retries  int
	Err      error
}

// InTransaction 實現 shared.TransactionManager
func (m *TxManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	var err error
	for attempt := 0; attempt <= m.Retries; attempt++ {
		m.Attempts++
		err = fn(nil)
		if err == nil || !isConflict(err) {
			return err
		}
	}
	return err
}

func isConflict(err error) bool {
	return errors.Is(err, shared.ErrConcurrentModification)
}

// ===========================
// Publisher
// ===========================

// Publisher 記錄已發布事件
type Publisher struct {
	mu     sync.Mutex
	Events []shared.DomainEvent
	Err    error
}

// Publish 實現 shared.EventPublisher
func (p *Publisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, events...)
	return nil
}

// Types 已發布事件的類型（依發布順序）
func (p *Publisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.Events))
	for i, e := range p.Events {
		types[i] = e.EventType()
	}
	return types
}

// ===========================
// Recorder
// ===========================

// Recorder 記錄業務指標呼叫
type Recorder struct {
	PackReleases   int
	Finalized      map[string]int
	EcOrdersPlaced int
}

func (r *Recorder) PackReleased(string) { r.PackReleases++ }

func (r *Recorder) TransactionFinalized(kind string) {
	if r.Finalized == nil {
		r.Finalized = make(map[string]int)
	}
	r.Finalized[kind]++
}

func (r *Recorder) EcOrderPlaced(string) { r.EcOrdersPlaced++ }

// ===========================
// versions
// ===========================

// versions 記錄每個聚合在「資料庫」中的版本
type versions[K comparable] map[K]int

// check 比對版本並前進；不存在返回 notFound
func (v versions[K]) check(id K, current int, notFound error) error {
	stored, ok := v[id]
	if !ok {
		return notFound
	}
	if stored != current {
		return shared.ErrConcurrentModification
	}
	v[id] = stored + 1
	return nil
}
