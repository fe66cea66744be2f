package copywriter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"covergen/internal/domain"
)

type modelCopyPayload struct {
	CoverTitle string   `json:"cover_title"`
	UIFeatures []string `json:"ui_features"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
}

func buildSystemPrompt(tone string) string {
	sb := &strings.Builder{}
	sb.WriteString("你是一名顶级小红书运营专家和视觉设计师。请根据产品信息，创作出极具吸引力的视觉素材和种草文案。")
	sb.WriteString("必须返回一个合法的 JSON 格式，包含以下字段：")
	sb.WriteString(`1. "cover_title": 极简封面短标题，2-8个字（如：深睡神器、口袋里的键盘）。`)
	sb.WriteString(`2. "ui_features": 列表，包含3个核心卖点文字，每项不超10字。严禁包含Emoji，直接输出纯文字。`)
	sb.WriteString(`3. "title": 爆款笔记正文标题（带Emoji）。`)
	sb.WriteString(`4. "content": 笔记正文，口语化，Emoji 丰富。`)
	sb.WriteString(`5. "tags": 4个相关话题标签（不带#号）。`)
	fmt.Fprintf(sb, "当前风格要求：%s", tone)
	return sb.String()
}

func buildUserPrompt(p domain.Product) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "产品名称：%s\n", p.Name)
	fmt.Fprintf(sb, "品类：%s\n", p.Category)
	fmt.Fprintf(sb, "价格：%s\n", p.Price)
	fmt.Fprintf(sb, "受众：%s\n", p.TargetAudience)
	fmt.Fprintf(sb, "特征：%s\n", strings.Join(p.Features, "、"))
	fmt.Fprintf(sb, "核心卖点：%s", p.SellingPoint)
	return sb.String()
}

// normalizeTags trims, drops a leading '#', and removes duplicates.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
