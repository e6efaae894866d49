package redcircle

import (
	"bytes"
	"encoding/json"
)

// Record 解包后的原始商品数据
// 上游返回的任意嵌套 JSON 对象，内部形状不做校验，下游必须容忍缺键
type Record map[string]interface{}

// DecodeRecord 解析响应体并解包一层 product 信封
// 数字统一保留为 json.Number，避免大整数和价格精度在 float64 上丢失
// 解包后不是 JSON 对象时返回 format 类错误，调用方降级为空数据
func DecodeRecord(body []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, &FetchError{Kind: ErrKindFormat, Err: err}
	}

	// 信封解包：{"product": {...}} -> {...}
	if obj, ok := payload.(map[string]interface{}); ok {
		if inner, exists := obj["product"]; exists {
			payload = inner
		}
	}

	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil, &FetchError{Kind: ErrKindFormat, Err: errNotObject}
	}
	return Record(obj), nil
}

// Clone 深拷贝，防止调用方修改互相串数据（缓存快照依赖这一点）
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	copied := make(Record, len(r))
	for k, v := range r {
		copied[k] = cloneValue(v)
	}
	return copied
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, child := range t {
			m[k] = cloneValue(child)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, child := range t {
			s[i] = cloneValue(child)
		}
		return s
	default:
		// string / bool / json.Number / nil 都是不可变值
		return t
	}
}
