package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopbot/backend/internal/domain"
)

const noPriceLabel = "Liên hệ"

var vndPrinter = message.NewPrinter(language.Vietnamese)

// formatPrice renders a VND amount with Vietnamese digit grouping, or the contact label when unknown
func formatPrice(amount int64) string {
	if amount <= 0 {
		return noPriceLabel
	}
	return vndPrinter.Sprintf("%d", amount)
}

func buildReplyPrompt(req domain.ReplyRequest) string {
	analysis, err := json.Marshal(req.Criteria)
	if err != nil {
		analysis = []byte("{}")
	}

	lines := make([]string, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, fmt.Sprintf("%s - %s VND", p.Name, formatPrice(p.Price)))
	}

	var b strings.Builder
	b.WriteString("Bạn là chatbot hỗ trợ khách hàng tìm sản phẩm.\n")
	fmt.Fprintf(&b, "Câu hỏi: %q\n\n", req.Query)
	fmt.Fprintf(&b, "Phân tích: %s\n\n", analysis)
	b.WriteString("Sản phẩm tìm thấy:\n")
	if len(lines) == 0 {
		b.WriteString("(không có)\n")
	} else {
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\nHãy tạo phản hồi tự nhiên, thân thiện, gợi ý các sản phẩm phù hợp.\n")
	b.WriteString("Nếu không tìm thấy sản phẩm phù hợp, hãy gợi ý các sản phẩm tương tự.")
	return b.String()
}

const imageAnalysisPrompt = `Phân tích hình ảnh này và mô tả sản phẩm:
- Loại sản phẩm (điện thoại, laptop, tablet, tai nghe, loa, đồng hồ)
- Thương hiệu có thể nhận diện được
- Màu sắc
- Đặc điểm nổi bật
Trả về JSON đúng schema: productType, brand, color, features, description.`
