package webfetch

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// DecodeEUCJP converts an EUC-JP encoded document to UTF-8.
func DecodeEUCJP(raw []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(raw), japanese.EUCJP.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decode euc-jp: %w", err)
	}
	return decoded, nil
}

// EncodeEUCJP is the inverse of DecodeEUCJP.
func EncodeEUCJP(text string) ([]byte, error) {
	encoded, _, err := transform.Bytes(japanese.EUCJP.NewEncoder(), []byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode euc-jp: %w", err)
	}
	return encoded, nil
}
