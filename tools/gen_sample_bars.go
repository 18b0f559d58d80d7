package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
)

// 生成随机游走的日K线样例数据，供终端查看器使用
//
//	go run tools/gen_sample_bars.go -code SH600000 -n 300

type barRecord struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type seriesFile struct {
	Code       string      `json:"code"`
	Name       string      `json:"name"`
	Market     string      `json:"market,omitempty"`
	Instrument string      `json:"instrument,omitempty"`
	PrevClose  float64     `json:"prev_close"`
	Bars       []barRecord `json:"bars"`
}

func main() {
	code := flag.String("code", "SH600000", "证券代码")
	name := flag.String("name", "浦发银行", "证券名称")
	count := flag.Int("n", 300, "K线数量")
	start := flag.Float64("price", 10, "起始价格")
	seed := flag.Uint64("seed", 42, "随机种子")
	out := flag.String("o", filepath.Join("data", "sample_bars.json"), "输出文件")
	flag.Parse()

	fmt.Println("=== K线样例数据生成工具 ===")

	rng := rand.New(rand.NewPCG(*seed, *seed))
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local)
	price := *start

	sf := seriesFile{Code: *code, Name: *name, PrevClose: round2(price)}
	for len(sf.Bars) < *count {
		// 跳过周末
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			day = day.AddDate(0, 0, 1)
			continue
		}

		open := price * (1 + rng.NormFloat64()*0.005)
		closePrice := open * (1 + rng.NormFloat64()*0.015)
		high := math.Max(open, closePrice) * (1 + math.Abs(rng.NormFloat64())*0.006)
		low := math.Min(open, closePrice) * (1 - math.Abs(rng.NormFloat64())*0.006)
		volume := math.Round(5e6 * (0.5 + rng.Float64()) * (1 + math.Abs(closePrice-open)/open*20))

		sf.Bars = append(sf.Bars, barRecord{
			Time:   day.Format("2006-01-02"),
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(closePrice),
			Volume: volume,
		})
		price = closePrice
		day = day.AddDate(0, 0, 1)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		fmt.Printf("❌ 序列化失败: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		fmt.Printf("❌ 创建目录失败: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		fmt.Printf("❌ 写入文件失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 已生成 %s：%s %d 根K线\n", *out, sf.Code, len(sf.Bars))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
