package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zurustar/sybl/pkg/fileutil"
)

// DefaultEncoding はエンコーディング未指定時に使用する
const DefaultEncoding = "utf-8"

// Script はスクリプトファイルを表す
type Script struct {
	FileName string // ファイル名
	Path     string // 実際に読み込んだパス
	Content  string // UTF-8に変換された内容
	Size     int64  // ファイルサイズ
}

// InputError はスクリプトファイルを開けなかったことを表す
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cannot open script %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Loader はスクリプトファイルの読み込みを行う
type Loader struct {
	encoding string
}

// NewLoader Loaderを作成（encodingが空の場合はUTF-8）
func NewLoader(encoding string) *Loader {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Loader{
		encoding: encoding,
	}
}

// Encoding 使用するエンコーディング名を返す
func (l *Loader) Encoding() string {
	return l.encoding
}

// Load 単一のスクリプトファイルを読み込む
func (l *Loader) Load(path string) (*Script, error) {
	// 大文字小文字を無視してファイルを探す
	actualPath, err := fileutil.ResolvePath(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	info, err := os.Stat(actualPath)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &InputError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	data, err := os.ReadFile(actualPath)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}

	content, err := Decode(data, l.encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding: %w", err)
	}

	return &Script{
		FileName: filepath.Base(actualPath),
		Path:     actualPath,
		Content:  content,
		Size:     info.Size(),
	}, nil
}

// Decode 指定エンコーディングからUTF-8に変換
// 先頭にBOMがある場合はBOMの示すUnicodeエンコーディングを優先する
func Decode(data []byte, encoding string) (string, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(encoding))
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}

	decoder := unicode.BOMOverride(enc.NewDecoder())
	utf8Data, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", encoding, err)
	}

	return string(utf8Data), nil
}
