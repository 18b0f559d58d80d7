package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"kline-monitor/kline"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ============================================================================
// K线数据文件
// ============================================================================

// BarRecord 文件中的一根K线
type BarRecord struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// SeriesFile K线数据文件（JSON 格式；CSV 只包含 bars 部分）
type SeriesFile struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Market     string      `json:"market"`     // CN / HK / US，为空时按代码识别
	Instrument string      `json:"instrument"` // equity / index，为空时使用配置
	PrevClose  float64     `json:"prev_close"` // 昨日收盘价（分时参考价），0 表示不可用
	Bars       []BarRecord `json:"bars"`
}

// barTimeLayouts 支持的时间格式
var barTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"20060102",
}

// loadSeriesFile 按扩展名加载 JSON 或 CSV 文件
func loadSeriesFile(path string) (*SeriesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var sf *SeriesFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		sf, err = parseSeriesCSV(data)
		if err == nil {
			sf.Code = strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
	default:
		sf, err = parseSeriesJSON(data)
	}
	if err != nil {
		return nil, err
	}

	if sf.Market == "" {
		sf.Market = detectMarket(sf.Code)
		logDebug("log.series.marketAutoDetect", sf.Code, sf.Market)
	}
	if len(sf.Bars) == 0 {
		return nil, fmt.Errorf("no bars in %s", path)
	}
	return sf, nil
}

// parseSeriesJSON 解析 JSON 数据文件
func parseSeriesJSON(data []byte) (*SeriesFile, error) {
	var sf SeriesFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return &sf, nil
}

// csvColumns CSV 表头别名（中英文行情软件导出格式）
var csvColumns = map[string]string{
	"date": "time", "time": "time", "datetime": "time", "日期": "time", "时间": "time",
	"open": "open", "开盘": "open", "开盘价": "open",
	"high": "high", "最高": "high", "最高价": "high",
	"low": "low", "最低": "low", "最低价": "low",
	"close": "close", "收盘": "close", "收盘价": "close",
	"volume": "volume", "vol": "volume", "成交量": "volume",
}

// parseSeriesCSV 解析 CSV 数据文件；非 UTF-8 内容按 GBK 解码
func parseSeriesCSV(data []byte) (*SeriesFile, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := gbkToUtf8(data)
		if err != nil {
			return nil, fmt.Errorf("decode gbk: %w", err)
		}
		data = []byte(decoded)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int)
	for i, h := range header {
		if name, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[name] = i
		}
	}
	for _, need := range []string{"time", "open", "high", "low", "close"} {
		if _, ok := cols[need]; !ok {
			return nil, fmt.Errorf("csv missing column %q", need)
		}
	}

	sf := &SeriesFile{}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		bar := BarRecord{Time: field(rec, cols, "time")}
		for name, dst := range map[string]*float64{
			"open": &bar.Open, "high": &bar.High, "low": &bar.Low, "close": &bar.Close, "volume": &bar.Volume,
		} {
			s := strings.ReplaceAll(field(rec, cols, name), ",", "")
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %s: %w", line, name, err)
			}
			*dst = v
		}
		sf.Bars = append(sf.Bars, bar)
	}
	return sf, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// toKlineBars 转换为引擎K线；时间无法解析或价格非法的记录返回错误
func (sf *SeriesFile) toKlineBars() ([]kline.Bar, error) {
	location := sf.location()
	bars := make([]kline.Bar, 0, len(sf.Bars))
	for i, rec := range sf.Bars {
		t, err := parseTimeInMarket(rec.Time, location)
		if err != nil {
			return nil, fmt.Errorf("invalid bar at index %d: %w", i, err)
		}
		if rec.Close <= 0 {
			return nil, fmt.Errorf("invalid bar at index %d: close %v", i, rec.Close)
		}
		b := kline.Bar{
			Time:   t,
			Open:   rec.Open,
			High:   rec.High,
			Low:    rec.Low,
			Close:  rec.Close,
			Volume: rec.Volume,
		}
		// 缺失的开高低用收盘价补齐（分时数据通常只有价格）
		if b.Open <= 0 {
			b.Open = b.Close
		}
		b.High = max(b.High, b.Open, b.Close)
		if b.Low <= 0 {
			b.Low = min(b.Open, b.Close)
		}
		b.Low = min(b.Low, b.Open, b.Close)
		bars = append(bars, b)
	}
	return bars, nil
}

// instrumentType 文件指定的品种类型，未指定时返回 fallback
func (sf *SeriesFile) instrumentType(fallback kline.InstrumentType) kline.InstrumentType {
	if sf.Instrument == "" {
		return fallback
	}
	t, err := kline.ParseInstrumentType(sf.Instrument)
	if err != nil {
		logWarn("log.series.badInstrument", sf.Instrument)
		return fallback
	}
	return t
}

// ============================================================================
// 市场识别
// ============================================================================

// detectMarket 根据代码前缀识别市场
func detectMarket(code string) string {
	code = strings.ToUpper(code)
	switch {
	case strings.HasPrefix(code, "SH"), strings.HasPrefix(code, "SZ"), strings.HasPrefix(code, "BJ"):
		return "CN"
	case strings.HasPrefix(code, "HK"):
		return "HK"
	default:
		return "US"
	}
}

// isAShare 是否为A股（SH/SZ开头或市场为 CN）
func (sf *SeriesFile) isAShare() bool {
	return sf.Market == "CN" || strings.HasPrefix(sf.Code, "SH") || strings.HasPrefix(sf.Code, "SZ")
}

// ============================================================================
// 字符编码转换
// ============================================================================

// gbkToUtf8 将GBK编码转换为UTF-8
func gbkToUtf8(data []byte) (string, error) {
	reader := transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder())
	utf8Data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(utf8Data), nil
}
