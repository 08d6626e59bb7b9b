// Package main provides localization for the vca CLI.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"
)

// helpTexts maps kong help variables to their English text.
var helpTexts = map[string]string{
	"help_analyze": "Analyze a raw YUV or Y4M sequence",
	"help_version": "Show version information",

	"help_input":       "Input .yuv or .y4m file (- reads stdin)",
	"help_config":      "YAML configuration file",
	"help_width":       "Frame width for raw input",
	"help_height":      "Frame height for raw input",
	"help_bit_depth":   "Bit depth for raw input (8-16)",
	"help_color_space": "Chroma layout for raw input",
	"help_skip":        "Number of frames to skip",
	"help_frames":      "Maximum number of frames to analyze (0 = all)",

	"help_cpu_simd":      "SIMD level: auto, none, avx2 or neon",
	"help_frame_threads": "Number of worker threads (0 = auto)",
	"help_slice_threads": "Slice threads (multiplies the worker pool)",
	"help_block_size":    "Block size: 8, 16, 32 or 64",
	"help_lowpass":       "Apply the low-pass filter before analysis",
	"help_no_entropy":    "Disable entropy calculation",
	"help_no_edge":       "Disable edge density calculation",
	"help_queue_depth":   "Pending frame queue depth (0 = auto)",
	"help_unordered":     "Emit results in completion order",
	"help_set":           "Set an analyzer parameter by name",

	"help_csv":            "Write per-frame results to a CSV file",
	"help_summary":        "Write a Markdown summary to this path",
	"help_heatmap_dir":    "Write per-frame heat map PNGs to this directory",
	"help_heatmap_metric": "Heat map metric: energy, entropy or edge",
	"help_redis_url":      "Publish results to this Redis URL",
	"help_redis_key":      "Redis list key for published results",

	"help_log_level":  "Log level (debug, info, warn, error)",
	"help_log_format": "Log format (console, json)",
	"help_quiet":      "Suppress all log output",
}

// helpVars returns the help texts translated for the current language.
func helpVars() kong.Vars {
	vars := kong.Vars{}
	for k, v := range helpTexts {
		vars[k] = l10n.T(v)
	}
	return vars
}

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Analyze the spatial complexity of raw video sequences": "生の動画シーケンスの空間的複雑度を解析",

		// Commands
		"Analyze a raw YUV or Y4M sequence": "YUVまたはY4Mシーケンスを解析",
		"Show version information":          "バージョン情報を表示",
		"vca (Go) version %s":               "vca (Go版) バージョン %s",

		// Input flags
		"Input .yuv or .y4m file (- reads stdin)":      "入力する.yuvまたは.y4mファイル（-で標準入力）",
		"YAML configuration file":                      "YAML設定ファイル",
		"Frame width for raw input":                    "raw入力のフレーム幅",
		"Frame height for raw input":                   "raw入力のフレーム高さ",
		"Bit depth for raw input (8-16)":               "raw入力のビット深度（8-16）",
		"Chroma layout for raw input":                  "raw入力の色差フォーマット",
		"Number of frames to skip":                     "スキップするフレーム数",
		"Maximum number of frames to analyze (0 = all)": "解析する最大フレーム数（0 = すべて）",

		// Analysis flags
		"SIMD level: auto, none, avx2 or neon": "SIMDレベル: auto, none, avx2, neon",
		"Number of worker threads (0 = auto)":          "ワーカースレッド数（0 = 自動）",
		"Slice threads (multiplies the worker pool)":      "スライススレッド数（ワーカー数に乗算）",
		"Block size: 8, 16, 32 or 64":                  "ブロックサイズ: 8, 16, 32, 64",
		"Apply the low-pass filter before analysis":    "解析前にローパスフィルタを適用",
		"Disable entropy calculation":                  "エントロピー計算を無効化",
		"Disable edge density calculation":             "エッジ密度計算を無効化",
		"Pending frame queue depth (0 = auto)":         "待機フレームキューの深さ（0 = 自動）",
		"Emit results in completion order":             "完了順に結果を出力",
		"Set an analyzer parameter by name":            "名前を指定して解析パラメータを設定",

		// Output flags
		"Write per-frame results to a CSV file":           "フレームごとの結果をCSVファイルに出力",
		"Write a Markdown summary to this path":           "Markdownサマリーをこのパスに出力",
		"Write per-frame heat map PNGs to this directory": "フレームごとのヒートマップPNGをこのディレクトリに出力",
		"Heat map metric: energy, entropy or edge":        "ヒートマップの指標: energy, entropy, edge",
		"Publish results to this Redis URL":               "結果をこのRedis URLに送信",
		"Redis list key for published results":            "送信する結果のRedisリストキー",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":           "ログ形式（console, json）",
		"Suppress all log output":              "すべてのログ出力を抑制",

		// Summary labels
		"Analysis Summary":          "解析サマリー",
		"Generated":                 "生成日時",
		"Input":                     "入力",
		"File":                      "ファイル",
		"Format":                    "形式",
		"Resolution":                "解像度",
		"Bit Depth":                 "ビット深度",
		"Color Space":               "色空間",
		"Bytes Read":                "読み込みサイズ",
		"Skipped Frames":            "スキップしたフレーム",
		"Settings":                  "設定",
		"Threads":                   "スレッド数",
		"Block Size":                "ブロックサイズ",
		"CPU SIMD":                  "CPU SIMD",
		"Low-pass":                  "ローパス",
		"Entropy":                   "エントロピー",
		"Edge Density":              "エッジ密度",
		"Run":                       "実行",
		"Frames":                    "フレーム数",
		"Rejected Frames":           "拒否されたフレーム",
		"Blocks per Frame":          "フレームあたりのブロック数",
		"Duration":                  "所要時間",
		"Throughput":                "処理速度",
		"Metrics":                   "指標",
		"Mean Energy (E)":           "平均エネルギー (E)",
		"Energy Range":              "エネルギー範囲",
		"Mean Entropy (h)":          "平均エントロピー (h)",
		"Mean Edge Density":         "平均エッジ密度",
		"Peak Energy Change":        "最大エネルギー変化",
		"Outputs":                   "出力ファイル",
		"Item":                      "項目",
		"Value":                     "値",
		"on":                        "有効",
		"off":                       "無効",
		"Generated by":              "生成元",
	})
}
