package model

import "fmt"

// Coin 収集可能なコイン。ID のみで識別される非代替トークン。
// 生成時の ID は "{i}:{j}#{k}" 形式で、どのセルで生まれたかを辿れるが、
// インベントリに移った後は出自セルとの関係を持たない自由な値となる。
type Coin struct {
	ID string `json:"id"` // コインの一意識別子
}

// NewGeneratedCoin セル (i, j) の k 番目として生成されたコインを作成
func NewGeneratedCoin(cell Cell, k int) Coin {
	return Coin{ID: fmt.Sprintf("%d:%d#%d", cell.I, cell.J, k)}
}
