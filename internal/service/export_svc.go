package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"target_annotator_v1_202608/internal/repository"
)

// ErrEmptyExport 没有已抓取的数据，导出中止且不改任何状态
var ErrEmptyExport = errors.New("没有可导出的商品数据，请先抓取")

// ==================== 导出结果 ====================

// ExportResult 导出产物
// JSON 是 4 空格缩进、按目录顺序排列的最终文本（展示层原样呈现）
type ExportResult struct {
	Fields []FieldValue `json:"fields"`
	JSON   string       `json:"json"`
}

// ==================== 导出服务 ====================

// ExportService 把当前必填字段的投影序列化为 JSON 文档
type ExportService struct {
	sessionRepo repository.SessionRepository
	sessions    *SessionService
	projector   *ProjectorService
}

func NewExportService(
	sessionRepo repository.SessionRepository,
	sessions *SessionService,
	projector *ProjectorService,
) *ExportService {
	return &ExportService{
		sessionRepo: sessionRepo,
		sessions:    sessions,
		projector:   projector,
	}
}

// ExportRequired 按调用时刻的必填字段快照导出
// 字段顺序即目录顺序；数据为空时报 ErrEmptyExport
func (s *ExportService) ExportRequired(ctx context.Context, sessionID string) (*ExportResult, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	data := session.Record()
	if len(data) == 0 {
		return nil, ErrEmptyExport
	}

	specs, err := s.sessionRepo.GetFields(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	required := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Required {
			required = append(required, spec.Name)
		}
	}

	values := s.projector.Project(data, required)
	return &ExportResult{
		Fields: values,
		JSON:   renderDocument(values),
	}, nil
}

// renderDocument 手工排版 JSON 对象
// encoding/json 序列化 map 会按键名排序，这里必须保住目录顺序，
// 所以逐行写键值对，键值本身仍交给标准库转义（关掉 HTML 转义，
// 商品标题里的 & 要原样输出）
func renderDocument(values []FieldValue) string {
	if len(values) == 0 {
		return "{}"
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, fv := range values {
		buf.WriteString("    ")
		writeJSONValue(&buf, fv.Field)
		buf.WriteString(": ")
		writeJSONValue(&buf, fv.Value)
		if i < len(values)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.String()
}

func writeJSONValue(buf *bytes.Buffer, v interface{}) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	// Encode 会补一个换行，排版自己管
	buf.Truncate(buf.Len() - 1)
}
