package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"target_annotator_v1_202608/internal/model"
	"target_annotator_v1_202608/internal/service"
	"target_annotator_v1_202608/pkg/redcircle"
)

func main() {
	fmt.Println(">>> 开始执行全链路测试...")

	// ------------------------------------------------
	// 1. 从环境变量读取凭证和 TCIN
	// ------------------------------------------------
	apiKey := os.Getenv("REDCIRCLE_API_KEY")
	if apiKey == "" {
		log.Fatal("❌ 请先设置 REDCIRCLE_API_KEY")
	}
	tcin := os.Getenv("TEST_TCIN")
	if tcin == "" {
		tcin = "89603872"
	}
	fmt.Printf("✅ 读取配置成功: [TCIN: %s] [Key长度: %d]\n", tcin, len(apiKey))

	// ------------------------------------------------
	// 2. 发起 RedCircle 请求
	// ------------------------------------------------
	client := redcircle.NewClient(nil)

	fmt.Println(">>> 正在向 RedCircle 发起商品请求...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	record, err := client.FetchProduct(ctx, apiKey, tcin)
	if err != nil {
		log.Fatalf("❌ 请求失败: %v", err)
	}
	if len(record) == 0 {
		fmt.Println("⚠️ 连接通了，但没有抓到商品数据，请检查 TCIN")
		fmt.Println("提示: 如果是 403，通常是 API Key 填错了；如果是 429，是请求太快了。")
		return
	}

	// ------------------------------------------------
	// 3. 投影内置字段并打印
	// ------------------------------------------------
	fmt.Println("🎉🎉🎉 测试成功！全链路已打通！")

	projector := service.NewProjectorService()
	for _, spec := range model.DefaultFieldSpecs() {
		fmt.Printf("%s: %s\n", spec.Name, projector.Resolve(record, spec.Name))
	}
}
