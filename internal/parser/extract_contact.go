package parser

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"resume-screener/internal/types"
)

// DefaultPhoneRegion 号码不带国家码时按该地区解析
const DefaultPhoneRegion = "IN"

// defaultCities 内置的城市列表
var defaultCities = []string{
	"Mumbai", "Delhi", "New Delhi", "Bangalore", "Bengaluru", "Hyderabad", "Chennai",
	"Kolkata", "Pune", "Ahmedabad", "Jaipur", "Noida", "Gurgaon", "Gurugram",
}

var (
	emailPattern = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)

	// phonePatterns 按顺序尝试，第一个命中的模式生效
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[-\s]?(?:\d{10}|\d{5}[-\s]?\d{5}|\d{3}[-\s]?\d{3}[-\s]?\d{4})`),
		regexp.MustCompile(`(?:^|\D)(\d{10})(?:\D|$)`),
		regexp.MustCompile(`(?:^|\D)(\(?\d{3}\)?[-\s]?\d{3}[-\s]?\d{4})(?:\D|$)`),
	}
	phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

	locationLabel = regexp.MustCompile(`(?i)\b(?:Address|Location)\s*[:\-]\s*([^\n]+)`)
	streetAddress = regexp.MustCompile(`(?i)\b\d{1,5}[A-Za-z]?[ \t]+(?:[A-Za-z0-9.]+[ \t]+){0,4}(?:Street|St|Road|Rd|Avenue|Ave|Lane|Ln|Nagar|Marg|Boulevard|Blvd)\b[^\n]*`)
)

// ContactExtractor 联系方式提取器
type ContactExtractor struct {
	cityPattern *regexp.Regexp
	region      string
}

// NewContactExtractor 创建联系方式提取器，extraCities 追加到内置城市列表
func NewContactExtractor(extraCities []string, region string) *ContactExtractor {
	cities := make([]string, 0, len(defaultCities)+len(extraCities))
	for _, c := range append(append([]string{}, defaultCities...), extraCities...) {
		if c = strings.TrimSpace(c); c != "" {
			cities = append(cities, regexp.QuoteMeta(c))
		}
	}
	if region == "" {
		region = DefaultPhoneRegion
	}
	return &ContactExtractor{
		cityPattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(cities, "|") + `)\b(?:,[ \t]*[A-Za-z]+)?`),
		region:      strings.ToUpper(region),
	}
}

var defaultContactExtractor = NewContactExtractor(nil, DefaultPhoneRegion)

// ExtractContact 使用内置城市列表提取联系方式
func ExtractContact(text string) types.ContactInfo {
	return defaultContactExtractor.Extract(text)
}

// Extract 提取邮箱、电话、所在地和地址，找不到的字段留空
func (e *ContactExtractor) Extract(text string) types.ContactInfo {
	var info types.ContactInfo
	info.Email = findEmail(text)
	info.Phone = findPhone(text)
	if info.Phone != "" {
		info.PhoneE164 = e.formatE164(info.Phone)
	}
	if m := locationLabel.FindStringSubmatch(text); m != nil {
		info.Location = strings.TrimSpace(m[1])
	} else if m := e.cityPattern.FindString(text); m != "" {
		info.Location = strings.TrimSpace(m)
	}
	if m := streetAddress.FindString(text); m != "" {
		info.Address = strings.TrimSpace(m)
	}
	return info
}

// findEmail 返回第一个不属于网址的邮箱
func findEmail(text string) string {
	for _, loc := range emailPattern.FindAllStringIndex(text, -1) {
		m := text[loc[0]:loc[1]]
		lower := strings.ToLower(m)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "www.") {
			continue
		}
		// 紧跟在 "https://" 或路径之后的片段同样属于网址
		if loc[0] > 0 {
			if prev := text[loc[0]-1]; prev == '/' || prev == ':' {
				continue
			}
		}
		return m
	}
	return ""
}

// findPhone 依次尝试电话模式，去掉空格、横线和括号
func findPhone(text string) string {
	for _, re := range phonePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[0]
		if len(m) > 1 && m[1] != "" {
			raw = m[1]
		}
		return phoneNoise.Replace(strings.TrimSpace(raw))
	}
	return ""
}

// formatE164 号码有效时返回 E.164 格式
func (e *ContactExtractor) formatE164(phone string) string {
	num, err := phonenumbers.Parse(phone, e.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
