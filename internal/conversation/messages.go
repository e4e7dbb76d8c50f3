package conversation

import (
	"strconv"

	"smsbot/internal/domain"
	"smsbot/internal/util"
)

const (
	msgWelcome    = "👋 MekongSMS Bot\n\nPlease input the phone number:"
	msgPhoneSaved = "✅ Phone {phone} saved. Now input the message:"
	msgSending    = "⏳ Sending..."
	msgSuccess    = "✅ SUCCESS\n\n📲 To: {phone}\n📩 Msg: {message}\n📝 Response: {raw}"
	msgWarning    = "⚠️ API RETURN\nOutput: {raw}"
	msgHTTPError  = "❌ HTTP ERROR: {status}"
	msgSysError   = "❌ SYSTEM ERROR: {err}"
	msgRestart    = "🔄 Type /start to try again."
	msgCancelled  = "🚫 Cancelled."
)

func phoneSavedText(phone string) string {
	return util.RenderTemplate(msgPhoneSaved, map[string]string{"phone": phone})
}

// OutcomeText renders the report the user sees after a send.
func OutcomeText(o domain.Outcome) string {
	switch o.Kind {
	case domain.OutcomeSuccess:
		return util.RenderTemplate(msgSuccess, map[string]string{
			"phone":   o.Phone,
			"message": o.Message,
			"raw":     o.Raw,
		})
	case domain.OutcomeWarning:
		return util.RenderTemplate(msgWarning, map[string]string{"raw": o.Raw})
	case domain.OutcomeHTTPError:
		return util.RenderTemplate(msgHTTPError, map[string]string{"status": strconv.Itoa(o.HTTPStatus)})
	default:
		desc := "unknown error"
		if o.Err != nil {
			desc = o.Err.Error()
		}
		return util.RenderTemplate(msgSysError, map[string]string{"err": desc})
	}
}
