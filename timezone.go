package main

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // 终端环境不一定带时区数据库
)

// marketTimezones 市场代码到时区
var marketTimezones = map[string]string{
	"CN": "Asia/Shanghai",
	"HK": "Asia/Hong_Kong",
	"US": "America/New_York",
}

// getMarketLocation 根据市场代码返回对应的时区 Location
// market: 市场代码 (例如 "CN", "US", "HK")
func getMarketLocation(market string) (*time.Location, error) {
	timezone, ok := marketTimezones[strings.ToUpper(market)]
	if !ok {
		return nil, fmt.Errorf("unknown market type: %s", market)
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", timezone, err)
	}
	return location, nil
}

// parseTimeInMarket 在市场时区中解析K线时间，依次尝试支持的格式
// 带时区偏移的 RFC3339 时间保持原有偏移
func parseTimeInMarket(s string, location *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range barTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// location 数据文件所属市场的时区，未知市场降级到本地时区
func (sf *SeriesFile) location() *time.Location {
	location, err := getMarketLocation(sf.Market)
	if err != nil {
		logWarn("log.series.timezoneFallback", sf.Market, err)
		return time.Local
	}
	return location
}
