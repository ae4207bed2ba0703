package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUsage コマンドラインの使い方が誤っている場合のエラー
var ErrUsage = errors.New("invalid usage")

// デフォルト値
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "auto"
	DefaultEncoding  = "utf-8"
)

// 設定項目のキー（長いフラグ名と同じ）
const (
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyEncoding  = "encoding"
	KeyTimeout   = "timeout"
	KeyConfig    = "config"
)

// 環境変数名
const (
	EnvLogLevel  = "SYBL_LOG_LEVEL"
	EnvLogFormat = "SYBL_LOG_FORMAT"
	EnvEncoding  = "SYBL_ENCODING"
	EnvTimeout   = "SYBL_TIMEOUT"
	EnvConfig    = "SYBL_CONFIG"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

// 短縮形フラグと長いフラグ名の対応
var shortFlags = map[string]string{
	"l": KeyLogLevel,
	"e": KeyEncoding,
	"t": KeyTimeout,
	"c": KeyConfig,
}

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	ScriptPath string        // 実行するスクリプトファイルのパス
	LogLevel   string        // ログレベル（debug, info, warn, error）
	LogFormat  string        // ログ形式（auto, text, json）
	Encoding   string        // スクリプトファイルの文字エンコーディング
	Timeout    time.Duration // タイムアウト時間（0は無制限）
	ConfigPath string        // 設定ファイルのパス（空なら自動検出）
	ShowHelp   bool          // ヘルプ表示フラグ

	// コマンドラインまたは環境変数で明示的に指定された項目
	set map[string]bool
}

// NewConfig デフォルト値のConfigを作成
func NewConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Encoding:  DefaultEncoding,
		set:       make(map[string]bool),
	}
}

// IsSet 項目がコマンドラインまたは環境変数で指定されたかを返す
func (c *Config) IsSet(key string) bool {
	return c.set[key]
}

// MarkSet 項目を明示的に指定済みとして記録する
func (c *Config) MarkSet(key string) {
	if c.set == nil {
		c.set = make(map[string]bool)
	}
	c.set[key] = true
}

// Validate 設定値を検証する
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log format: %s (must be auto, text, or json)", c.LogFormat)
	}
	if c.Encoding == "" {
		return fmt.Errorf("encoding must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	return nil
}

// ParseArgs コマンドライン引数を解析してConfigを返す
// 優先順位: コマンドラインフラグ > 環境変数 > デフォルト値
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("sybl", flag.ContinueOnError)
	// エラーは呼び出し側で表示する
	fs.SetOutput(io.Discard)

	config := NewConfig()

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", DefaultLogLevel, "ログレベル（短縮形）")
	fs.StringVar(&config.LogFormat, "log-format", DefaultLogFormat, "ログ形式（auto, text, json）")
	fs.StringVar(&config.Encoding, "encoding", DefaultEncoding, "スクリプトの文字エンコーディング")
	fs.StringVar(&config.Encoding, "e", DefaultEncoding, "スクリプトの文字エンコーディング（短縮形）")
	fs.StringVar(&config.ConfigPath, "config", "", "設定ファイルのパス")
	fs.StringVar(&config.ConfigPath, "c", "", "設定ファイルのパス（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	// 明示的に指定されたフラグを記録
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := shortFlags[name]; ok {
			name = long
		}
		config.MarkSet(name)
	})

	if config.ShowHelp {
		return config, nil
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if err := applyEnv(config, &timeoutSec); err != nil {
		return nil, err
	}

	// タイムアウトの検証
	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	config.LogLevel = strings.ToLower(config.LogLevel)
	config.LogFormat = strings.ToLower(config.LogFormat)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// 位置引数（スクリプトファイルのパス）はちょうど1つ
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("%w: expected exactly one script path, got %d", ErrUsage, fs.NArg())
	}
	config.ScriptPath = fs.Arg(0)

	return config, nil
}

// applyEnv 未指定の項目を環境変数から設定する
func applyEnv(config *Config, timeoutSec *int) error {
	if !config.IsSet(KeyLogLevel) {
		if v := os.Getenv(EnvLogLevel); v != "" {
			config.LogLevel = v
			config.MarkSet(KeyLogLevel)
		}
	}

	if !config.IsSet(KeyLogFormat) {
		if v := os.Getenv(EnvLogFormat); v != "" {
			config.LogFormat = v
			config.MarkSet(KeyLogFormat)
		}
	}

	if !config.IsSet(KeyEncoding) {
		if v := os.Getenv(EnvEncoding); v != "" {
			config.Encoding = v
			config.MarkSet(KeyEncoding)
		}
	}

	if !config.IsSet(KeyConfig) {
		if v := os.Getenv(EnvConfig); v != "" {
			config.ConfigPath = v
			config.MarkSet(KeyConfig)
		}
	}

	if !config.IsSet(KeyTimeout) {
		if v := os.Getenv(EnvTimeout); v != "" {
			t, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
			}
			*timeoutSec = t
			config.MarkSet(KeyTimeout)
		}
	}

	return nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// 次の引数が値である可能性をチェック
			// （-t 5 のような場合。-t=5 の形式は値を含む）
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' && !strings.Contains(arg, "=") {
				// ブール型フラグでない場合は次の引数も追加
				if !isBoolFlag(arg) {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	// 位置引数がフラグとして解釈されないように "--" で区切る
	if len(positional) > 0 {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}

// isBoolFlag 値を取らないフラグかどうか
func isBoolFlag(arg string) bool {
	switch strings.TrimLeft(arg, "-") {
	case "h", "help":
		return true
	default:
		return false
	}
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `sybl - line-oriented script interpreter

Usage:
  sybl [options] <script>

Arguments:
  script        実行するスクリプトファイルのパス
                見つからない場合は大文字小文字を区別せずに検索

Options:
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: warn）
  --log-format <format>       ログ形式: auto, text, json（デフォルト: auto）
  -e, --encoding <name>       スクリプトの文字エンコーディング（デフォルト: utf-8）
  -t, --timeout <seconds>     指定秒数後に実行を打ち切る（デフォルト: 無制限）
  -c, --config <path>         設定ファイル（YAML）のパス
  -h, --help                  このヘルプを表示

Environment Variables:
  SYBL_LOG_LEVEL=<level>      ログレベル
  SYBL_LOG_FORMAT=<format>    ログ形式
  SYBL_ENCODING=<name>        文字エンコーディング
  SYBL_TIMEOUT=<seconds>      タイムアウト時間（秒）
  SYBL_CONFIG=<path>          設定ファイルのパス

Configuration File:
  --config を指定しない場合、スクリプトと同じディレクトリの .sybl.yaml を読み込む
  優先順位: コマンドライン > 環境変数 > 設定ファイル > デフォルト値

Examples:
  sybl hello.syb                     スクリプトを実行
  sybl -e shift_jis legacy.syb       Shift_JISのスクリプトを実行
  sybl --timeout 10 loop.syb         10秒後に打ち切る
  sybl --log-level debug hello.syb   デバッグログを有効化
`)
}
