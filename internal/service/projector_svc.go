package service

import (
	"fmt"
	"strings"

	"target_annotator_v1_202608/pkg/redcircle"
)

// ==================== 字段映射 ====================

// NA 缺失或异常数据的占位值
const NA = "N/A"

// KeyMapping 展示名 -> 接口字段
// Price 和 Main Image 走专门逻辑，不在表里
var KeyMapping = map[string]string{
	"TCIN":            "tcin",
	"Product Title":   "title",
	"Brand":           "brand",
	"UPC":             "upc",
	"DPCI":            "dpci",
	"Description":     "description",
	"Ingredients":     "ingredients",
	"Feature Bullets": "feature_bullets", // 可能是列表
	"Specifications":  "specifications_flat",
	"Weight":          "weight",
	"Dimensions":      "dimensions",
	"Total Ratings":   "ratings_total",
}

const (
	fieldPrice     = "Price"
	fieldMainImage = "Main Image"
)

// FieldValue 投影结果的一行，切片顺序即目录顺序
type FieldValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ==================== 投影服务 ====================

// ProjectorService 把原始商品数据投影成展示值
// 所有解析失败都降级为 N/A 或空串，永远不报错
type ProjectorService struct{}

func NewProjectorService() *ProjectorService {
	return &ProjectorService{}
}

// Project 按给定字段顺序逐个解析，字段之间互不影响
func (s *ProjectorService) Project(data redcircle.Record, fields []string) []FieldValue {
	values := make([]FieldValue, 0, len(fields))
	for _, field := range fields {
		values = append(values, FieldValue{
			Field: field,
			Value: s.Resolve(data, field),
		})
	}
	return values
}

// Resolve 解析单个字段的展示值
func (s *ProjectorService) Resolve(data redcircle.Record, field string) string {
	switch field {
	case fieldPrice:
		return s.resolvePrice(data)
	case fieldMainImage:
		return s.resolveMainImage(data)
	default:
		apiField, ok := KeyMapping[field]
		if !ok {
			// 未映射的自定义字段按展示名直查
			apiField = field
		}
		value, exists := data[apiField]
		if !exists || value == nil {
			return NA
		}
		return stringify(value)
	}
}

// resolvePrice 拼接 buybox_winner.price 的货币符号和数值，如 "$9.99"
func (s *ProjectorService) resolvePrice(data redcircle.Record) string {
	price := childObject(childObject(data, "buybox_winner"), "price")

	currency := ""
	if sym, ok := price["currency_symbol"].(string); ok {
		currency = sym
	}

	value := NA
	if v, exists := price["value"]; exists && v != nil {
		value = stringify(v)
	}

	return currency + value
}

// resolveMainImage 取 main_image.link，结构不对时给 N/A
func (s *ProjectorService) resolveMainImage(data redcircle.Record) string {
	img, ok := data["main_image"].(map[string]interface{})
	if !ok {
		return NA
	}
	link, exists := img["link"]
	if !exists || link == nil {
		return NA
	}
	return stringify(link)
}

// MainImageURL 展示层的布局判定：只有 http 开头的字符串才算可展示图片
func (s *ProjectorService) MainImageURL(data redcircle.Record) (string, bool) {
	img, ok := data["main_image"].(map[string]interface{})
	if !ok {
		return "", false
	}
	link, _ := img["link"].(string)
	if !strings.HasPrefix(link, "http") {
		return "", false
	}
	return link, true
}

// ==================== 通用字符串化 ====================

// stringify 列表按 ", " 拼接，其余走通用格式化
// json.Number 按字面量输出，价格和大整数不走浮点
func stringify(v interface{}) string {
	if list, ok := v.([]interface{}); ok {
		parts := make([]string, 0, len(list))
		for _, el := range list {
			parts = append(parts, fmt.Sprintf("%v", el))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v)
}

// childObject 取子对象，缺失或类型不对时返回空 map，查找自然落空
func childObject(data map[string]interface{}, key string) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}
	if obj, ok := data[key].(map[string]interface{}); ok {
		return obj
	}
	return map[string]interface{}{}
}
