package http

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supportedLanguages = []language.Tag{language.English, language.Arabic}

var languageMatcher = language.NewMatcher(supportedLanguages)

// errorMessages holds the user-facing text for each error code, per language.
var errorMessages = map[string][2]string{
	"unauthenticated":      {"Please sign in to continue.", "يرجى تسجيل الدخول للمتابعة."},
	"forbidden":            {"You do not have permission to perform this action.", "ليس لديك صلاحية لتنفيذ هذا الإجراء."},
	"account_not_approved": {"Your account has not been approved yet.", "لم تتم الموافقة على حسابك بعد."},
	"account_pending":      {"Your account is awaiting approval.", "حسابك بانتظار الموافقة."},
	"account_rejected":     {"Your account application was rejected.", "تم رفض طلب حسابك."},
	"invalid_credentials":  {"Incorrect email or password.", "البريد الإلكتروني أو كلمة المرور غير صحيحة."},
	"missing_credentials":  {"Email and password are required.", "البريد الإلكتروني وكلمة المرور مطلوبان."},
	"too_many_attempts":    {"Too many login attempts. Please try again later.", "محاولات تسجيل دخول كثيرة. يرجى المحاولة لاحقاً."},
	"invalid_request":      {"The request could not be understood.", "تعذر فهم الطلب."},
	"invalid_email":        {"Please provide a valid email address.", "يرجى إدخال بريد إلكتروني صالح."},
	"weak_password":        {"The password must be at least 8 characters long.", "يجب أن تتكون كلمة المرور من 8 أحرف على الأقل."},
	"password_too_long":    {"The password must be at most 72 bytes long.", "يجب ألا تتجاوز كلمة المرور 72 بايت."},
	"email_taken":          {"An account with this email already exists.", "يوجد حساب مسجل بهذا البريد الإلكتروني."},
	"invalid_filter":       {"The filter values are not valid.", "قيم التصفية غير صالحة."},
	"missing_title":        {"A course title is required.", "عنوان الدورة مطلوب."},
	"user_not_found":       {"User not found.", "المستخدم غير موجود."},
	"course_not_found":     {"Course not found.", "الدورة غير موجودة."},
	"already_enrolled":     {"You are already enrolled in this course.", "أنت مسجل بالفعل في هذه الدورة."},
	"not_found":            {"The requested resource was not found.", "المورد المطلوب غير موجود."},
	"server_error":         {"Something went wrong. Please try again later.", "حدث خطأ ما. يرجى المحاولة لاحقاً."},
}

func init() {
	for code, texts := range errorMessages {
		for i, tag := range supportedLanguages {
			_ = message.SetString(tag, code, texts[i])
		}
	}
}

// localize picks the caller's language from Accept-Language, defaulting to English.
// Codes without a message fall back to the generic text for their status.
func localize(r *http.Request, status int, code string) string {
	tag := supportedLanguages[0]
	if r != nil {
		if accepted, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(accepted) > 0 {
			_, index, confidence := languageMatcher.Match(accepted...)
			if confidence != language.No {
				tag = supportedLanguages[index]
			}
		}
	}

	if _, ok := errorMessages[code]; !ok {
		code = fallbackCode(status)
	}
	return message.NewPrinter(tag).Sprintf(code)
}

func fallbackCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadRequest, http.StatusConflict:
		return "invalid_request"
	case http.StatusTooManyRequests:
		return "too_many_attempts"
	default:
		return "server_error"
	}
}
