package service

// 決定論的な文字列ハッシュ。セルごとのキャッシュ出現判定と初期コイン数の
// シードとして使うため、プロセスを跨いで安定していること（rand や時刻に
// 依存しないこと）が必須。

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211

	// CoinCountSalt 初期コイン数の判定キーに付けるサフィックス。
	// 出現判定と同じ値を使うとコイン数が出現しきい値に相関してしまう。
	CoinCountSalt = "#coins"
)

// mix64 64bit入力を撹拌して良好に分布した64bit出力にする
// （Murmur ファイナライザ風のアバランシェ）。
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Luck キーだけから決まる [0, 1) の疑似乱数値を返す純粋関数。
// 同じキーは常にビット単位で同一の値を返す。
func Luck(key string) float64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= fnvPrime64
	}
	h = mix64(h)

	// 上位53bitを仮数に使い [0, 1) に正規化する
	return float64(h>>11) / float64(1<<53)
}
