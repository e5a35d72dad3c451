package bank

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeUTF8 将表格文件内容转换为 UTF-8。
// name 非空时按指定编码（WHATWG 名称，如 "windows-1252"、"gbk"）解码；
// 否则依次检查 BOM、UTF-8，再尝试常见的旧编码
func DecodeUTF8(data []byte, name string) ([]byte, error) {
	if name != "" {
		enc, err := htmlindex.Get(name)
		if err != nil {
			return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
		}
		return decodeWith(enc, data)
	}

	if len(data) == 0 {
		return data, nil
	}

	// 检查 BOM
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return decodeWith(xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM), data[2:])
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return decodeWith(xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM), data[2:])
	}

	if utf8.Valid(data) {
		return data, nil
	}

	// 尝试常见编码，Windows-1252 能解码任意字节，放在最后
	for _, enc := range []encoding.Encoding{simplifiedchinese.GB18030, charmap.Windows1252} {
		// 出现替换字符说明编码猜错了
		if res, err := decodeWith(enc, data); err == nil && utf8.Valid(res) && !bytes.ContainsRune(res, utf8.RuneError) {
			return res, nil
		}
	}
	return data, nil
}

func decodeWith(enc encoding.Encoding, data []byte) ([]byte, error) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return res, nil
}
