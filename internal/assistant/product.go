package assistant

import (
	"fmt"
	"strings"

	"growth-assistant-go/internal/model"
)

var describeMarkers = []string{"describe", "details", "explain", "overview", "what is", "tell me about", "info"}

// ProductReply 回答产品相关的问题：带描述类词语时解析具体产品并给出描述，否则列出已分配产品。
func ProductReply(question string, catalog *model.Catalog, resolver *ProductResolver, p Policy) Reply {
	if len(catalog.Products) == 0 {
		return Reply{Text: MsgNoProducts, Intent: IntentProduct}
	}
	if !containsAny(strings.ToLower(question), describeMarkers...) {
		return Reply{Text: listProducts(catalog.Products), Intent: IntentProduct}
	}
	return DescribeProduct(question, catalog, resolver, p)
}

// DescribeProduct 解析问题中的产品并返回其描述。
func DescribeProduct(question string, catalog *model.Catalog, resolver *ProductResolver, p Policy) Reply {
	if len(catalog.Products) == 0 {
		return Reply{Text: MsgNoProducts, Intent: IntentProduct}
	}
	keywords := extractKeywords(question, p.stopwordSet(IntentProduct), 0)
	product, ok := resolver.Resolve(catalog.Products, strings.Join(keywords, " "))
	if !ok {
		// 关键词被停用词过滤光的情况下再用原句试一次
		product, ok = resolver.MentionedIn(catalog.Products, question)
	}
	if !ok {
		return Reply{
			Text:   "Which product would you like to know about? Your assigned products: " + esc(strings.Join(catalog.Products, ", ")) + ".",
			Intent: IntentProduct,
		}
	}
	desc, found := productDescription(product, catalog.LearningMaterials)
	if !found {
		return Reply{Text: MsgNoDescription, Intent: IntentProduct}
	}
	return Reply{Text: fmt.Sprintf("<b>%s</b><br>%s", esc(product), toHTML(desc)), Intent: IntentProduct}
}

// productDescription 在学习资料中查找产品字段等于或包含该产品名的第一条非空描述。
func productDescription(product string, materials []model.LearningMaterial) (string, bool) {
	target := strings.ToLower(strings.TrimSpace(product))
	for _, exact := range []bool{true, false} {
		for _, m := range materials {
			mp := strings.ToLower(strings.TrimSpace(m.Product))
			hit := mp == target
			if !exact {
				hit = mp != "" && strings.Contains(mp, target)
			}
			if hit && strings.TrimSpace(m.Description) != "" {
				return m.Description, true
			}
		}
	}
	return "", false
}

func listProducts(products []string) string {
	var b strings.Builder
	b.WriteString("Your assigned products:")
	for _, p := range products {
		b.WriteString("<br>• ")
		b.WriteString(esc(p))
	}
	return b.String()
}
