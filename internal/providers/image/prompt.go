package image

import (
	"fmt"
	"strings"
)

// photoRequirements keeps the model away from text, logos and watermarks so
// the cover overlay stays readable.
const photoRequirements = "要求：POV第一视角，真实感，画面无任何文字，无LOGO，无水印，干净背景，4k。"

// BuildPhotoPrompt turns a product into a still-life photography prompt. The
// tone hint is sent separately as a style hint.
func BuildPhotoPrompt(req GenerateRequest) string {
	parts := []string{"产品摄影"}
	if name := strings.TrimSpace(req.ProductName); name != "" {
		parts = append(parts, name)
	}
	if point := strings.TrimSpace(req.SellingPoint); point != "" {
		parts = append(parts, point)
	}
	return fmt.Sprintf("%s。 %s", strings.Join(parts, "，"), photoRequirements)
}
