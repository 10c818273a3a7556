package common

// Recorder 業務指標記錄（由 observability 層以 Prometheus 實作）
type Recorder interface {
	PackReleased(storeID string)
	TransactionFinalized(kind string)
	EcOrderPlaced(storeID string)
}

// NopRecorder 不記錄任何指標
type NopRecorder struct{}

func (NopRecorder) PackReleased(string)         {}
func (NopRecorder) TransactionFinalized(string) {}
func (NopRecorder) EcOrderPlaced(string)        {}

// RecorderOrNop nil 時返回 NopRecorder
func RecorderOrNop(r Recorder) Recorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}
