package service

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"GeoCoin-App/internal/domain/model"
)

// Board 連続的な地理座標と離散セルグリッドの相互変換を担う。
// 既知セルのレジストリを持ち、同じ (i, j) に対しては常に同一の *model.Cell を
// 返す（正規化）。下流はセルの同一性をポインタ比較で判定できる。
type Board struct {
	tileWidthDegrees float64
	knownCells       map[model.Cell]*model.Cell
}

// NewBoard 指定タイル幅のボードを作成
func NewBoard(tileWidthDegrees float64) *Board {
	return &Board{
		tileWidthDegrees: tileWidthDegrees,
		knownCells:       make(map[model.Cell]*model.Cell),
	}
}

// canonicalCell (i, j) に対応する正規化済みセルを返す（未知なら登録する）
func (b *Board) canonicalCell(key model.Cell) *model.Cell {
	if cell, ok := b.knownCells[key]; ok {
		return cell
	}
	cell := &model.Cell{I: key.I, J: key.J}
	b.knownCells[key] = cell
	return cell
}

// CellForPoint 地点を含むセルを返す。floor 除算による全域写像で、
// 同じ地点は常に同じセルに解決される。
func (b *Board) CellForPoint(loc model.Location) *model.Cell {
	i := int(math.Floor(loc.Lat / b.tileWidthDegrees))
	j := int(math.Floor(loc.Lng / b.tileWidthDegrees))
	return b.canonicalCell(model.Cell{I: i, J: j})
}

// CellBounds セルの矩形境界を返す。原点は (i*tileWidth, j*tileWidth)、
// 境界は半開区間（南西角はセルに含まれ、北東角は含まれない）。
// orb.Point は (lng, lat) 順である点に注意。
func (b *Board) CellBounds(cell *model.Cell) orb.Bound {
	south := float64(cell.I) * b.tileWidthDegrees
	west := float64(cell.J) * b.tileWidthDegrees
	return orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{west + b.tileWidthDegrees, south + b.tileWidthDegrees},
	}
}

// CellBoundsWKT セル境界をWKTポリゴン文字列で返す（描画コラボレータ向け）
func (b *Board) CellBoundsWKT(cell *model.Cell) string {
	return wkt.MarshalString(b.CellBounds(cell).ToPolygon())
}

// CellsNear 地点を含むセルからチェビシェフ距離 radius 以内（境界含む）の
// 全セルを返す。結果は (2*radius+1)^2 個で、すべて正規化済み。
func (b *Board) CellsNear(loc model.Location, radius int) []*model.Cell {
	origin := b.CellForPoint(loc)
	cells := make([]*model.Cell, 0, (2*radius+1)*(2*radius+1))
	for di := -radius; di <= radius; di++ {
		for dj := -radius; dj <= radius; dj++ {
			cells = append(cells, b.canonicalCell(model.Cell{I: origin.I + di, J: origin.J + dj}))
		}
	}
	return cells
}
