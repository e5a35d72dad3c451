package bank

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Format 题库文件格式
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// DetectFormat 根据扩展名判断文件格式
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported question bank format: %q", filepath.Ext(path))
	}
}

// ReaderConfig 读取器配置
type ReaderConfig struct {
	Encoding     string // 为空时自动检测
	FuzzyHeaders bool
}

// Reader 将题库文件解析为题目列表，跳过完全为空的行
type Reader struct {
	cfg    ReaderConfig
	mapper *HeaderMapper
	logger *zap.Logger
}

// NewReader 创建读取器
func NewReader(cfg ReaderConfig, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		cfg:    cfg,
		mapper: NewHeaderMapper(cfg.FuzzyHeaders),
		logger: logger,
	}
}

// ReadFile 按扩展名读取文件
func (r *Reader) ReadFile(path string) ([]Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &ReadError{Path: path, Reason: "unknown format", Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	rows, err := r.Read(f, format)
	if err != nil {
		if re, ok := err.(*ReadError); ok {
			re.Path = path
			return nil, re
		}
		return nil, &ReadError{Path: path, Reason: "read failed", Err: err}
	}

	r.logger.Info("题库读取完成",
		zap.String("file", path),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// Read 按指定格式读取
func (r *Reader) Read(in io.Reader, format Format) ([]Row, error) {
	switch format {
	case FormatCSV:
		return r.ReadCSV(in, ',')
	case FormatTSV:
		return r.ReadCSV(in, '\t')
	case FormatJSON:
		return r.ReadJSON(in)
	case FormatHTML:
		return r.ReadHTML(in)
	default:
		return nil, &ReadError{Reason: "unknown format", Err: fmt.Errorf("format %q", format)}
	}
}

// ReadCSV 读取分隔符表格，第一行为表头
func (r *Reader) ReadCSV(in io.Reader, comma rune) ([]Row, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, &ReadError{Reason: "read failed", Err: err}
	}
	data, err := DecodeUTF8(raw, r.cfg.Encoding)
	if err != nil {
		return nil, &ReadError{Reason: "decode failed", Err: err}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ReadError{Reason: "invalid csv", Err: err}
	}
	if len(records) == 0 {
		return nil, nil
	}
	return r.rowsFromTable(records[0], records[1:]), nil
}

// ReadJSON 读取对象数组，或者导出格式 {"data": [...]}
func (r *Reader) ReadJSON(in io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, &ReadError{Reason: "read failed", Err: err}
	}

	var records []map[string]any
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		var wrapped struct {
			Data []map[string]any `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, &ReadError{Reason: "invalid json", Err: err}
		}
		records = wrapped.Data
	} else if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, &ReadError{Reason: "invalid json", Err: err}
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := r.mapper.RowFromMap(rec)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadHTML 读取文档中的第一个表格，第一行为表头
func (r *Reader) ReadHTML(in io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(in)
	if err != nil {
		return nil, &ReadError{Reason: "invalid html", Err: err}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &ReadError{Reason: "no table", Err: fmt.Errorf("document contains no <table>")}
	}

	var records [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		if len(cells) > 0 {
			records = append(records, cells)
		}
	})
	if len(records) == 0 {
		return nil, nil
	}
	return r.rowsFromTable(records[0], records[1:]), nil
}

// cellText 单元格中的图片保留为 markdown 图片，便于切分引擎识别
func cellText(cell *goquery.Selection) string {
	cell.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			img.ReplaceWithNodes(textNode(" ![image](" + src + ") "))
		}
	})
	cell.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithNodes(textNode("\n"))
	})
	return strings.TrimSpace(cell.Text())
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func (r *Reader) rowsFromTable(headers []string, records [][]string) []Row {
	unknown := 0
	for _, h := range headers {
		if _, ok := r.mapper.Resolve(h); !ok {
			unknown++
			r.logger.Debug("忽略未知表头", zap.String("header", h))
		}
	}
	if unknown == len(headers) {
		r.logger.Warn("没有可识别的表头", zap.Strings("headers", headers))
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := r.mapper.RowFromRecord(headers, rec)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
