// Package config はYAML形式の設定ファイルを読み込む
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zurustar/sybl/pkg/cli"
)

// DefaultFileName スクリプトと同じディレクトリから自動検出する設定ファイル名
const DefaultFileName = ".sybl.yaml"

// Settings は設定ファイルの内容を保持する
// 空の項目は未指定として扱う
type Settings struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Encoding  string `yaml:"encoding"`
	Timeout   string `yaml:"timeout"` // time.ParseDuration形式（例: "30s"）
}

// Load 設定ファイルを読み込む
// 未知のキーはエラーとする
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse YAMLデータを解析する
func Parse(data []byte) (*Settings, error) {
	settings := &Settings{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		// 空のファイルはio.EOFになる
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Timeout != "" {
		if _, err := settings.timeout(); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// timeout タイムアウト値を解析する
func (s *Settings) timeout() (time.Duration, error) {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in config file: %w", s.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must be non-negative, got %v", d)
	}
	return d, nil
}

// Find 設定ファイルのパスを決定する
// --config（またはSYBL_CONFIG）が指定されていればそのパス、
// なければスクリプトと同じディレクトリの.sybl.yamlを探す
// 見つからない場合は空文字列を返す
func Find(config *cli.Config) string {
	if config.ConfigPath != "" {
		return config.ConfigPath
	}
	if config.ScriptPath == "" {
		return ""
	}
	path := filepath.Join(filepath.Dir(config.ScriptPath), DefaultFileName)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// Apply コマンドラインと環境変数で指定されなかった項目に設定値を適用する
func (s *Settings) Apply(config *cli.Config) error {
	if s.LogLevel != "" && !config.IsSet(cli.KeyLogLevel) {
		config.LogLevel = strings.ToLower(s.LogLevel)
	}
	if s.LogFormat != "" && !config.IsSet(cli.KeyLogFormat) {
		config.LogFormat = strings.ToLower(s.LogFormat)
	}
	if s.Encoding != "" && !config.IsSet(cli.KeyEncoding) {
		config.Encoding = s.Encoding
	}
	if s.Timeout != "" && !config.IsSet(cli.KeyTimeout) {
		d, err := s.timeout()
		if err != nil {
			return err
		}
		config.Timeout = d
	}
	return nil
}

// Merge 設定ファイルを探して読み込み、Configに反映する
// 読み込んだファイルのパスを返す（ファイルがなければ空文字列）
func Merge(config *cli.Config) (string, error) {
	path := Find(config)
	if path == "" {
		return "", nil
	}

	settings, err := Load(path)
	if err != nil {
		return "", err
	}
	if err := settings.Apply(config); err != nil {
		return "", err
	}
	return path, nil
}
