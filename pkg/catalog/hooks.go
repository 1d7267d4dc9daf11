package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Derived date formats.
const (
	blogDateFormat  = "02/01/2006"
	orderTimeFormat = "2006-01-02T15:04:05.000Z07:00"
)

// syncVariantPrice mirrors the first variant's price onto the top-level
// price field. Runs on create and update so the displayed price always
// tracks the lead variant.
func syncVariantPrice(doc Document) {
	vs, ok := doc["variants"].([]interface{})
	if !ok || len(vs) == 0 {
		return
	}
	first, ok := vs[0].(map[string]interface{})
	if !ok {
		return
	}
	if price, ok := first["price"]; ok {
		doc["price"] = price
	}
}

func productCreateHook(doc Document, _ time.Time) {
	syncVariantPrice(doc)
}

// blogCreateHook stamps the publication date, estimates the read time from
// the content's word count (200 words per minute, rounded up), and fills
// category and excerpt when the author left them blank.
func blogCreateHook(doc Document, now time.Time) {
	doc["date"] = now.Format(blogDateFormat)
	doc["readTime"] = readTime(doc)
	if v, ok := doc["category"]; !ok || v == nil || v == "" {
		if kw, ok := doc["keyword"]; ok && kw != nil && kw != "" {
			doc["category"] = kw
		} else {
			doc["category"] = "Uncategorized"
		}
	}
	if v, ok := doc["excerpt"]; !ok || v == nil {
		doc["excerpt"] = ""
	}
}

// blogUpdateHook recomputes the read time only when the payload carries
// new content.
func blogUpdateHook(patch Document) {
	if _, ok := patch["content"]; ok {
		patch["readTime"] = readTime(patch)
	}
}

func readTime(doc Document) string {
	content, _ := doc["content"].(string)
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	return fmt.Sprintf("%d min read", minutes)
}

// orderCreateHook stamps the creation instant as a sortable ISO-8601 UTC
// string and defaults the fulfillment status.
func orderCreateHook(doc Document, now time.Time) {
	doc["createdAt"] = now.UTC().Format(orderTimeFormat)
	if v, ok := doc["status"]; !ok || v == nil || v == "" {
		doc["status"] = "Pending"
	}
}

// couponCreateHook upper-cases the redemption code, defaults the discount
// type, and zeroes the usage counter whatever the caller sent.
func couponCreateHook(doc Document, _ time.Time) {
	upperCouponCode(doc)
	if v, ok := doc["type"]; !ok || v == nil || v == "" {
		doc["type"] = "percentage"
	}
	doc["currentUses"] = float64(0)
}

func couponUpdateHook(patch Document) {
	upperCouponCode(patch)
}

func upperCouponCode(doc Document) {
	if code, ok := doc["code"].(string); ok {
		doc["code"] = strings.ToUpper(code)
	}
}
