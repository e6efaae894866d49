package controller

import (
	"github.com/gin-gonic/gin"

	"target_annotator_v1_202608/internal/api/dto"
	"target_annotator_v1_202608/internal/service"
)

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ==================== 抓取 ====================

// Fetch 按 TCIN 抓取商品数据
// @Summary 抓取商品数据并替换会话快照
// @Tags Product
// @Accept json
// @Param id path string true "会话ID"
// @Param body body dto.FetchReq true "TCIN"
// @Success 200 {object} service.FetchOutcome
// @Router /api/sessions/{id}/fetch [post]
func (ctrl *ProductController) Fetch(c *gin.Context) {
	var req dto.FetchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "无效的 TCIN"})
		return
	}

	outcome, err := ctrl.productService.Fetch(c.Request.Context(), c.Param("id"), req.TCIN)
	if err != nil {
		respondSessionErr(c, err)
		return
	}

	// 抓取失败是业务终态而不是接口错误：展示层按 message 渲染 st.error 风格的提示
	message := "success"
	if !outcome.OK {
		message = outcome.Message
	} else if !outcome.HasData {
		message = "未抓取到商品数据，请检查 TCIN 或接口可用性"
	}

	c.JSON(200, gin.H{"code": 0, "message": message, "data": outcome})
}

// ==================== 详情视图 ====================

// Details 商品详情视图
// @Summary 商品详情（必填字段，可带可选字段；含布局决策）
// @Tags Product
// @Param id path string true "会话ID"
// @Param show_optional query bool false "是否带上可选字段"
// @Success 200 {object} service.DetailsView
// @Router /api/sessions/{id}/details [get]
func (ctrl *ProductController) Details(c *gin.Context) {
	showOptional := c.DefaultQuery("show_optional", "false") == "true"

	view, err := ctrl.productService.Details(c.Request.Context(), c.Param("id"), showOptional)
	if err != nil {
		respondSessionErr(c, err)
		return
	}

	message := "success"
	if !view.HasData {
		message = "暂无商品数据，请先在侧栏输入有效的 TCIN 抓取"
	}

	c.JSON(200, gin.H{"code": 0, "message": message, "data": view})
}
