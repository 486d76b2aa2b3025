package http

import (
	"net/http"

	"golang.org/x/text/language"

	"ledger/internal/access"
)

// Message codes that are not tied to an operation.
const (
	codeUnauthorized     = "unauthorized"
	codeInvalidToken     = "unauthorized.invalid_token"
	codeRateLimited      = "rate_limited"
	codeTimeout          = "timeout"
	codeMethodNotAllowed = "method_not_allowed"
	codeNotFound         = "not_found"
	codeSuspicious       = "rejected"
)

func errorCode(op access.Operation) string   { return "error." + string(op) }
func successCode(op access.Operation) string { return "success." + string(op) }

var catalogs = map[language.Tag]map[string]string{
	language.Arabic: {
		access.ReasonCode(access.OpDashboard):          "ليس لديك صلاحية لعرض هذه البيانات",
		access.ReasonCode(access.OpInvestors):          "ليس لديك صلاحية لعرض بيانات المستثمرين",
		access.ReasonCode(access.OpExpenses):           "ليس لديك صلاحية لعرض بيانات المصاريف",
		access.ReasonCode(access.OpRevenues):           "ليس لديك صلاحية لعرض بيانات الإيرادات",
		access.ReasonCode(access.OpWithdrawals):        "ليس لديك صلاحية لعرض بيانات السحوبات",
		access.ReasonCode(access.OpProjectWithdrawals): "ليس لديك صلاحية لعرض سحوبات المشروع",
		access.ReasonCode(access.OpSyncData):           "ليس لديك صلاحية لمزامنة البيانات",

		errorCode(access.OpDashboard):          "حدث خطأ في تحميل البيانات",
		errorCode(access.OpInvestors):          "حدث خطأ في تحميل بيانات المستثمرين",
		errorCode(access.OpExpenses):           "حدث خطأ في تحميل بيانات المصاريف",
		errorCode(access.OpRevenues):           "حدث خطأ في تحميل بيانات الإيرادات",
		errorCode(access.OpWithdrawals):        "حدث خطأ في تحميل بيانات السحوبات",
		errorCode(access.OpProjectWithdrawals): "حدث خطأ في تحميل بيانات سحوبات المشروع",
		errorCode(access.OpSyncData):           "حدث خطأ في مزامنة البيانات",

		successCode(access.OpSyncData): "تم تحديث البيانات بنجاح",

		codeUnauthorized:     "يجب تسجيل الدخول للوصول إلى هذه البيانات",
		codeInvalidToken:     "رمز الدخول غير صالح أو منتهي الصلاحية",
		codeRateLimited:      "عدد الطلبات كبير جدا، يرجى المحاولة لاحقا",
		codeTimeout:          "انتهت مهلة الطلب، يرجى المحاولة مرة أخرى",
		codeMethodNotAllowed: "طريقة الطلب غير مسموحة",
		codeNotFound:         "المورد غير موجود",
		codeSuspicious:       "تم رفض الطلب",
	},
	language.English: {
		access.ReasonCode(access.OpDashboard):          "You do not have permission to view this data",
		access.ReasonCode(access.OpInvestors):          "You do not have permission to view investor data",
		access.ReasonCode(access.OpExpenses):           "You do not have permission to view expense data",
		access.ReasonCode(access.OpRevenues):           "You do not have permission to view revenue data",
		access.ReasonCode(access.OpWithdrawals):        "You do not have permission to view withdrawal data",
		access.ReasonCode(access.OpProjectWithdrawals): "You do not have permission to view project withdrawals",
		access.ReasonCode(access.OpSyncData):           "You do not have permission to sync data",

		errorCode(access.OpDashboard):          "Failed to load data",
		errorCode(access.OpInvestors):          "Failed to load investor data",
		errorCode(access.OpExpenses):           "Failed to load expense data",
		errorCode(access.OpRevenues):           "Failed to load revenue data",
		errorCode(access.OpWithdrawals):        "Failed to load withdrawal data",
		errorCode(access.OpProjectWithdrawals): "Failed to load project withdrawal data",
		errorCode(access.OpSyncData):           "Failed to sync data",

		successCode(access.OpSyncData): "Data updated successfully",

		codeUnauthorized:     "Authentication is required to access this data",
		codeInvalidToken:     "The access token is invalid or has expired",
		codeRateLimited:      "Too many requests, please try again later",
		codeTimeout:          "The request timed out, please try again",
		codeMethodNotAllowed: "Method not allowed",
		codeNotFound:         "Resource not found",
		codeSuspicious:       "Request rejected",
	},
}

// missingCodes lists, per language, the operation codes cat has no text for.
func missingCodes(cat map[language.Tag]map[string]string) map[language.Tag][]string {
	missing := make(map[language.Tag][]string)
	for tag, msgs := range cat {
		for _, op := range access.Operations() {
			for _, code := range []string{access.ReasonCode(op), errorCode(op)} {
				if _, ok := msgs[code]; !ok {
					missing[tag] = append(missing[tag], code)
				}
			}
		}
	}
	return missing
}

// Messages resolves message codes into the language the client prefers.
type Messages struct {
	matcher   language.Matcher
	supported []language.Tag
}

// NewMessages builds a catalog whose fallback is defaultLang when it is one of
// the supported languages, Arabic otherwise.
func NewMessages(defaultLang string) *Messages {
	fallback := language.Arabic
	if tag, err := language.Parse(defaultLang); err == nil {
		base, _ := tag.Base()
		for t := range catalogs {
			if b, _ := t.Base(); b == base {
				fallback = t
			}
		}
	}

	supported := []language.Tag{fallback}
	for _, t := range []language.Tag{language.Arabic, language.English} {
		if t != fallback {
			supported = append(supported, t)
		}
	}
	return &Messages{matcher: language.NewMatcher(supported), supported: supported}
}

// Lookup returns the text for code in the language that best matches r's
// Accept-Language header. Unknown codes are returned unchanged.
func (m *Messages) Lookup(r *http.Request, code string) string {
	tag := m.supported[0]
	if r != nil {
		if prefs, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(prefs) > 0 {
			_, idx, _ := m.matcher.Match(prefs...)
			tag = m.supported[idx]
		}
	}
	if msg, ok := catalogs[tag][code]; ok {
		return msg
	}
	if msg, ok := catalogs[language.English][code]; ok {
		return msg
	}
	return code
}
