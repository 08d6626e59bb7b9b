package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Run level messages (info)
		"Analyzing %s (%s, %s)":                       "%s を解析中 (%s, %s)",
		"Analyzed %d frames in %d ms":                 "%d フレームを %d ms で解析しました",
		"Mean E=%.2f h=%.4f edge=%.4f over %d frames": "平均 E=%.2f h=%.4f edge=%.4f（%d フレーム）",
		"Output saved to %s":                          "出力を %s に保存しました",
		"Summary saved to %s":                         "サマリーを %s に保存しました",
		"Interrupted, shutting down...":               "中断されました。シャットダウン中...",
		"Received %s":                                 "%s を受信しました",
		"%d frames were rejected":                     "%d フレームが拒否されました",

		// Analyzer
		"Starting %d threads":                                    "%d スレッドを開始します",
		"Block size %d, simd %s, lowpass %v":                     "ブロックサイズ %d, SIMD %s, ローパス %v",
		"Worker %d stopped":                                      "ワーカー %d が停止しました",
		"Frame %d: E=%d h=%.3f":                                  "フレーム %d: E=%d h=%.3f",
		"Frame with invalid bit depth %d provided":               "不正なビット深度 %d のフレームが渡されました",
		"Frame with invalid size %dx%d provided":                 "不正なサイズ %dx%d のフレームが渡されました",
		"Frame with different settings received: %s, expected %s": "設定の異なるフレームを受信しました: %s（期待値 %s）",
		"Frame with luma stride %d below row size %d provided":    "行サイズ %[2]d より小さい輝度ストライド %[1]d のフレームが渡されました",
		"Frame with luma plane of %d bytes provided, need %d":     "輝度プレーンが %d バイトのフレームが渡されました（必要 %d バイト）",
		"Analyzer closed: %d pushed, %d completed, %d dropped":   "アナライザーを終了しました: 投入 %d, 完了 %d, 破棄 %d",

		// Public interface
		"Invalid parameters: %s": "パラメータが不正です: %s",
		"Push after close":       "終了後にフレームが投入されました",
		"Nil result buffer":      "結果バッファがnilです",

		// Outputs
		"Publishing results to %s": "結果を %s に送信します",

		// Errors
		"Failed to open input: %s":                 "入力を開けませんでした: %s",
		"Failed to read frame: %s":                 "フレームの読み込みに失敗しました: %s",
		"Failed to write result for frame %d: %s":  "フレーム %d の結果の書き込みに失敗しました: %s",
		"Failed to write summary: %s":              "サマリーの書き込みに失敗しました: %s",
	})
}
