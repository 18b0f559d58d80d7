package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// texts i18n 配置 - 存储各语言的文本映射
var texts map[Language]TextMap

// i18nDir i18n 文件目录
var i18nDir = "i18n"

// loadI18nFiles 加载 i18n 文件，一个语言都没有加载成功时返回错误
func loadI18nFiles() error {
	texts = make(map[Language]TextMap)

	for _, lang := range []Language{Chinese, English} {
		path := filepath.Join(i18nDir, string(lang)+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Warning: Failed to read %s: %v\n", path, err)
			continue
		}
		var m TextMap
		if err := json.Unmarshal(data, &m); err != nil {
			fmt.Printf("Warning: Failed to parse %s: %v\n", path, err)
			continue
		}
		texts[lang] = m
	}

	if len(texts) == 0 {
		return fmt.Errorf("no i18n files could be loaded from %s", i18nDir)
	}
	return nil
}

// getText 获取本地化文本的辅助函数
func (m *Model) getText(key string) string {
	if text, exists := texts[m.language][key]; exists {
		return text
	}
	// 如果找不到文本，返回英文版本作为备用
	if text, exists := texts[English][key]; exists {
		return text
	}
	return key
}

// getDebugText 全局文本获取函数（globalModel 未初始化时默认英文）
func getDebugText(key string) string {
	if globalModel == nil {
		if text, exists := texts[English][key]; exists {
			return text
		}
		return key
	}
	return globalModel.getText(key)
}
