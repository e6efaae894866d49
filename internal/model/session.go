package model

import (
	"bytes"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"target_annotator_v1_202608/pkg/redcircle"
)

// ==================== 标注会话 ====================

// AnnotationSession 标注会话
// 保存凭证、最近一次抓取的原始商品快照和字段目录，进程内有效
type AnnotationSession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 凭证只进不出，不回传给展示层
	APIKey   string `gorm:"size:128" json:"-"`
	LastTCIN string `gorm:"size:32" json:"last_tcin"`

	// 原始商品快照（JSON 对象，未抓取或抓取失败时为空）
	ProductData datatypes.JSON `json:"-"`

	Fields []FieldSpec `gorm:"foreignKey:SessionID;references:ID" json:"fields"`
}

func (AnnotationSession) TableName() string { return "annotation_sessions" }

// Record 反序列化商品快照，数字保留为 json.Number
func (s *AnnotationSession) Record() redcircle.Record {
	if len(s.ProductData) == 0 {
		return redcircle.Record{}
	}

	dec := json.NewDecoder(bytes.NewReader(s.ProductData))
	dec.UseNumber()

	var rec redcircle.Record
	if err := dec.Decode(&rec); err != nil {
		return redcircle.Record{}
	}
	return rec
}

// SetRecord 整体替换商品快照，传 nil 清空
func (s *AnnotationSession) SetRecord(rec redcircle.Record) error {
	if rec == nil {
		rec = redcircle.Record{}
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.ProductData = raw
	return nil
}

// HasData 是否抓到过数据
func (s *AnnotationSession) HasData() bool {
	return len(s.Record()) > 0
}

// ==================== 字段目录 ====================

// FieldSpec 字段目录行
// Name 是不可变标识；Required 随时可切换；Sort 决定展示顺序
type FieldSpec struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string `gorm:"size:36;uniqueIndex:idx_session_field,priority:1" json:"-"`
	Name      string `gorm:"size:64;uniqueIndex:idx_session_field,priority:2" json:"field"`
	Required  bool   `json:"required"`
	Sort      int    `json:"-"`
}

func (FieldSpec) TableName() string { return "field_specs" }

// DefaultFieldSpecs 内置目录：十四个字段及默认必填状态
func DefaultFieldSpecs() []FieldSpec {
	rows := []struct {
		name     string
		required bool
	}{
		{"TCIN", true},
		{"Product Title", true},
		{"Brand", true},
		{"Price", true},
		{"Main Image", true},
		{"UPC", false},
		{"DPCI", false},
		{"Description", false},
		{"Ingredients", false},
		{"Feature Bullets", false},
		{"Specifications", false},
		{"Weight", false},
		{"Dimensions", false},
		{"Total Ratings", false},
	}

	specs := make([]FieldSpec, 0, len(rows))
	for i, row := range rows {
		specs = append(specs, FieldSpec{
			Name:     row.name,
			Required: row.required,
			Sort:     i,
		})
	}
	return specs
}
