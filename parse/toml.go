package parse

// Package parse 提供对 TOML 文档的无损编辑入口。
//
// Document 同时保存原始文本和对应的 token 流：
// - 所有读取操作都基于 token 流完成
// - Insert 不修改原文档，而是返回新的 Document
// - String() 永远返回与 token 流一致的文本，未改动的部分逐字节保留

import (
	"fmt"
	"io"

	"github.com/dzjyyds666/tomledit/parse/editor"
	"github.com/dzjyyds666/tomledit/parse/keypath"
	"github.com/dzjyyds666/tomledit/parse/lexer"
	"github.com/dzjyyds666/tomledit/parse/tableindex"
	"github.com/dzjyyds666/tomledit/parse/toml"
)

// =========================
// Document
// =========================

type Document struct {
	tokens []lexer.Token
}

// Parse 读取全部输入并切分为 token
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return ParseString(string(data))
}

func ParseString(src string) (*Document, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &Document{tokens: tokens}, nil
}

func (d *Document) String() string {
	return lexer.Join(d.tokens)
}

// Tokens 返回 token 流的副本
func (d *Document) Tokens() []lexer.Token {
	return append([]lexer.Token(nil), d.tokens...)
}

func (d *Document) Tables() ([]tableindex.TablePos, error) {
	return tableindex.FindTables(d.tokens)
}

// =========================
// Read / Write
// =========================

func (d *Document) Get(key keypath.KeyPath) (toml.Node, error) {
	return editor.Get(d.tokens, key)
}

// Insert 在 key 所属的表中追加 `name = value`。
// 新文档的 token 由编辑后的文本重新切分得到，数组和内联表因此拥有真实的 token 类型。
func (d *Document) Insert(key keypath.KeyPath, value toml.Node) (*Document, error) {
	out, err := editor.InsertKV(d.tokens, key, value)
	if err != nil {
		return nil, err
	}
	return ParseString(lexer.Join(out))
}
