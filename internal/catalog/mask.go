package catalog

import "resume-screener/internal/types"

// Mask 返回屏蔽了个人信息的副本，原结果不变。
// 只替换已有值的字段；分析器原始输出无法可靠屏蔽，直接丢弃
func Mask(result *types.AnalysisResult) *types.AnalysisResult {
	if result == nil {
		return nil
	}
	out := *result
	out.AnalyzerOutput = ""

	if result.Record != nil {
		rec := *result.Record
		if rec.Name != "" {
			rec.Name = MaskedName
		}
		rec.Contact = maskContact(rec.Contact)
		out.Record = &rec
	}

	if result.Entities != nil {
		ent := *result.Entities
		if len(ent.Name) > 0 {
			ent.Name = []string{MaskedName}
		}
		if ent.Email != "" {
			ent.Email = MaskedEmail
		}
		if ent.Phone != "" {
			ent.Phone = MaskedPhone
		}
		out.Entities = &ent
	}

	if result.AnalyzerStructured != nil {
		out.AnalyzerStructured = maskStructured(result.AnalyzerStructured)
	}
	return &out
}

func maskContact(c types.ContactInfo) types.ContactInfo {
	if c.Email != "" {
		c.Email = MaskedEmail
	}
	if c.Phone != "" {
		c.Phone = MaskedPhone
		c.PhoneE164 = ""
	}
	if c.Location != "" {
		c.Location = MaskedLocation
	}
	if c.Address != "" {
		c.Address = MaskedLocation
	}
	return c
}

// maskStructured 处理分析器结构化输出中的 personal_info
func maskStructured(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	info, ok := in["personal_info"].(map[string]interface{})
	if !ok {
		return out
	}

	masked := make(map[string]interface{}, len(info))
	for k, v := range info {
		masked[k] = v
	}
	for key, placeholder := range map[string]string{
		"name":     MaskedName,
		"email":    MaskedEmail,
		"phone":    MaskedPhone,
		"location": MaskedLocation,
	} {
		if _, exists := masked[key]; exists {
			masked[key] = placeholder
		}
	}
	out["personal_info"] = masked
	return out
}
