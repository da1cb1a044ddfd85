package parser

import (
	"regexp"
	"strings"

	"resume-screener/internal/types"
)

var (
	// certKeyword 证书关键字（锚点）
	certKeyword = regexp.MustCompile(`(?i)\b(?:certifications?|certificates?|certified)\b`)

	// certIssuer 颁发机构
	certIssuer = regexp.MustCompile(`(?i)\b(?:issued\s+by|provided\s+by|offered\s+by|by|from)\b\s*[:\-]?\s*(.+)`)

	// certDate 颁发日期，月-年或四位年份
	certDate = regexp.MustCompile(`(?i)` + monthYear + `|\b(?:19|20)\d{2}\b`)
)

// certificationRules 证书规则表：证书关键字(锚点) → 颁发机构 → 日期 → 普通行
var certificationRules = []lineRule[types.CertificationEntry]{
	{
		name:  "keyword",
		match: certKeyword.MatchString,
		apply: func(acc *accumulator[types.CertificationEntry], line string) {
			if acc.current.Name != "" {
				acc.flush()
			}
			acc.current.Name = trimBullet(line)
		},
	},
	{
		name:  "issuer",
		match: certIssuer.MatchString,
		apply: func(acc *accumulator[types.CertificationEntry], line string) {
			issuer := strings.TrimSpace(certIssuer.FindStringSubmatch(line)[1])
			switch {
			case acc.current.Name == "":
				// "AWS Solutions Architect by Amazon" 这种写法名称和机构在同一行
				acc.current.Name = trimBullet(line)
				acc.current.Issuer = issuer
			case acc.current.Issuer == "":
				acc.current.Issuer = issuer
			default:
				acc.flush()
				acc.current.Name = trimBullet(line)
				acc.current.Issuer = issuer
			}
		},
	},
	{
		name:  "date",
		match: certDate.MatchString,
		apply: func(acc *accumulator[types.CertificationEntry], line string) {
			if acc.current.Date == "" {
				acc.current.Date = certDate.FindString(line)
			}
		},
	},
	{
		name:  "plain",
		match: always,
		apply: func(acc *accumulator[types.CertificationEntry], line string) {
			if acc.current.Name != "" {
				acc.flush()
			}
			acc.current.Name = trimBullet(line)
		},
	},
}

// ExtractCertifications 从 CERTIFICATIONS 章节的行中提取证书
func ExtractCertifications(lines []string) []types.CertificationEntry {
	return runRules(lines, certificationRules, (*types.CertificationEntry).HasContent)
}
