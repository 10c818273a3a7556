package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// ===========================
// 成本分攤領域服務
// ===========================

// AllocationLine 分攤對象
type AllocationLine struct {
	SellPrice int64
	Count     int
}

// Allocation 分攤結果
//
// Lots 最多兩筆，且 Σ UnitPrice*Quantity == Amount、Σ Quantity == Count。
type Allocation struct {
	Amount int64
	Lots   []WholesaleLot
}

// AllocateCost 依 SellPrice*Count 的比例分攤總成本
//
// 1. 每行金額 = floor(total * weight / Σweight)
// 2. 所有權重皆為 0 時改以數量平均分攤
// 3. 捨去的餘額全部加到權重最大的行（同權重取第一個）
// 4. 每行再拆成單價 q+1 與 q 兩個批次，使批次合計正好等於分攤金額
func AllocateCost(total int64, lines []AllocationLine, arrivedAt time.Time) ([]Allocation, error) {
	if total < 0 {
		return nil, ErrInvalidAllocation.WithContext("total", total)
	}
	if len(lines) == 0 {
		return nil, ErrInvalidAllocation.WithContext("reason", "no lines")
	}

	weights := make([]decimal.Decimal, len(lines))
	sum := decimal.Zero
	for i, l := range lines {
		if l.Count <= 0 {
			return nil, ErrInvalidAllocation.WithContext("line", i, "count", l.Count)
		}
		if l.SellPrice < 0 {
			return nil, ErrInvalidAllocation.WithContext("line", i, "sell_price", l.SellPrice)
		}
		weights[i] = decimal.NewFromInt(l.SellPrice).Mul(decimal.NewFromInt(int64(l.Count)))
		sum = sum.Add(weights[i])
	}
	if sum.IsZero() {
		sum = decimal.Zero
		for i, l := range lines {
			weights[i] = decimal.NewFromInt(int64(l.Count))
			sum = sum.Add(weights[i])
		}
	}

	totalDec := decimal.NewFromInt(total)
	amounts := make([]int64, len(lines))
	var allocated int64
	heaviest := 0
	for i := range lines {
		q, _ := totalDec.Mul(weights[i]).QuoRem(sum, 0)
		amounts[i] = q.IntPart()
		allocated += amounts[i]
		if weights[i].GreaterThan(weights[heaviest]) {
			heaviest = i
		}
	}
	amounts[heaviest] += total - allocated

	out := make([]Allocation, len(lines))
	for i, l := range lines {
		out[i] = Allocation{
			Amount: amounts[i],
			Lots:   SplitIntoLots(amounts[i], l.Count, arrivedAt),
		}
	}
	return out, nil
}

// SplitIntoLots 把金額拆成最多兩個批次
//
// amount = q*count + r → r 個單價 q+1、count-r 個單價 q。
func SplitIntoLots(amount int64, count int, arrivedAt time.Time) []WholesaleLot {
	if count <= 0 {
		return nil
	}
	q := amount / int64(count)
	r := int(amount % int64(count))

	lots := make([]WholesaleLot, 0, 2)
	if r > 0 {
		lots = append(lots, WholesaleLot{UnitPrice: q + 1, Quantity: r, ArrivedAt: arrivedAt})
	}
	if count-r > 0 {
		lots = append(lots, WholesaleLot{UnitPrice: q, Quantity: count - r, ArrivedAt: arrivedAt})
	}
	return lots
}
