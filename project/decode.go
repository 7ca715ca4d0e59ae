package project

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// binaryMarker 出现该字节序列的内容视为二进制
var binaryMarker = []byte{0x00, 0x01, 0x02, 0x03}

// IsBinary 判断内容是否为二进制
func IsBinary(data []byte) bool {
	return bytes.Contains(data, binaryMarker)
}

// DecodeText 先按 UTF-8 解码，失败时回退到 ISO-8859-1
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// readErrorContent 生成读取失败时写入内容的错误标记
func readErrorContent(err error) string {
	return fmt.Sprintf("Error reading file: %v", err)
}
