package model

// Location 地理座標（WGS 84）
type Location struct {
	Lat float64 `json:"lat" validate:"required,min=-90,max=90"`   // 緯度
	Lng float64 `json:"lng" validate:"required,min=-180,max=180"` // 経度
}

// TrailPoint 移動履歴の1点（[lat, lng] の配列としてシリアライズされる）
type TrailPoint [2]float64

// ToTrailPoint Location を移動履歴用の配列表現に変換
func (l Location) ToTrailPoint() TrailPoint {
	return TrailPoint{l.Lat, l.Lng}
}

// ToLocation 移動履歴の配列表現を Location に戻す
func (t TrailPoint) ToLocation() Location {
	return Location{Lat: t[0], Lng: t[1]}
}
