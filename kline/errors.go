package kline

import "errors"

var (
	// ErrOutOfRange 请求的索引或区间超出当前序列范围
	ErrOutOfRange = errors.New("kline: out of range")

	// ErrInvalidConfiguration 配置不合法（如 minBarWidth > maxBarWidth），属于上游编程错误
	ErrInvalidConfiguration = errors.New("kline: invalid configuration")
)
