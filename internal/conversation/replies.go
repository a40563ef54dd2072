// Package conversation – localized reply catalog.
//
// Replies are looked up by (language, key) from a static catalog. The catalog
// is deliberately small and hand-maintained: the intake flow has a fixed
// script, and free-text generation is a non-goal. English is the fallback for
// any missing translation so a gap degrades to a readable reply instead of an
// empty message.
package conversation

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Supported conversation languages, keyed by ISO 639-1 code.
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangMarathi = "mr"
)

// supportedTags drives free-text language matching. Order matters: the first
// tag is the matcher's fallback.
var supportedTags = []language.Tag{
	language.English,
	language.Hindi,
	language.Marathi,
}

var languageMatcher = language.NewMatcher(supportedTags)

// languageAliases maps spelled-out language names (including native script)
// to codes, for users who type a name instead of tapping a button.
var languageAliases = map[string]string{
	"english": LangEnglish,
	"hindi":   LangHindi,
	"marathi": LangMarathi,
	"हिंदी":   LangHindi,
	"हिन्दी":  LangHindi,
	"मराठी":   LangMarathi,
}

// supportedLanguage reports whether code names a supported language.
func supportedLanguage(code string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case LangEnglish:
		return LangEnglish, true
	case LangHindi:
		return LangHindi, true
	case LangMarathi:
		return LangMarathi, true
	}
	return "", false
}

// MatchLanguage resolves free text ("en", "English", "हिंदी", "mr-IN") to a
// supported language code. It consults the alias table first, then BCP 47
// matching with a confidence floor so arbitrary chatter does not accidentally
// select a language.
func MatchLanguage(text string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(text))
	if code, ok := languageAliases[norm]; ok {
		return code, true
	}
	if code, ok := supportedLanguage(norm); ok {
		return code, true
	}
	tag, err := language.Parse(norm)
	if err != nil {
		return "", false
	}
	matched, _, conf := languageMatcher.Match(tag)
	if conf < language.High {
		return "", false
	}
	base, _ := matched.Base()
	return supportedLanguage(base.String())
}

// Reply keys.
const (
	msgChooseLanguage   = "choose_language"
	msgChooseCategory   = "choose_category"
	msgAskDescription   = "ask_description"
	msgDescriptionShort = "description_short"
	msgAskLocation      = "ask_location"
	msgLocationShort    = "location_short"
	msgConfirmSummary   = "confirm_summary"
	msgSubmitted        = "submitted"
	msgSubmitFailed     = "submit_failed"
	msgCancelled        = "cancelled"
	msgIdleNudge        = "idle_nudge"
	msgHelp             = "help"
	msgClarify          = "clarify"
	msgStatusUsage      = "status_usage"
	msgStatusReply      = "status_reply"
	msgStatusNotFound   = "status_not_found"
)

// catalog holds every reply template per language. %-verbs are positional and
// must line up across translations.
var catalog = map[string]map[string]string{
	LangEnglish: {
		msgChooseLanguage:   "Welcome to the Smart Grievance System. Please choose your language.",
		msgChooseCategory:   "What is your grievance about? Choose a category:\n%s",
		msgAskDescription:   "Please describe the problem in a few sentences (at least 10 characters).",
		msgDescriptionShort: "That description is too short. Please write at least 10 characters.",
		msgAskLocation:      "Where is the problem? Send the location pin or type the address.",
		msgLocationShort:    "That location is too short. Please type at least 3 characters or share a location pin.",
		msgConfirmSummary:   "Please review your grievance:\n\n<b>Category:</b> %s\n<b>Description:</b> %s\n<b>Location:</b> %s\n\nSubmit it?",
		msgSubmitted:        "Your grievance has been registered. Ticket number: <b>%s</b>\nTrack it anytime with /status %s",
		msgSubmitFailed:     "Sorry, we could not register your grievance just now. Your details are saved — please tap Submit again in a moment.",
		msgCancelled:        "Cancelled. Your draft has been discarded. Send /start to report a new grievance.",
		msgIdleNudge:        "Send /start to report a grievance, or /status <ticket number> to track one.",
		msgHelp:             "Commands:\n/start — report a new grievance\n/cancel — discard the current draft\n/status <ticket number> — track a grievance\n/help — this message",
		msgClarify:          "Sorry, I did not understand that. Send /help for the list of commands.",
		msgStatusUsage:      "Usage: /status <ticket number>, e.g. /status GRV-TG-ABC123-42",
		msgStatusReply:      "Ticket <b>%s</b> is currently: <b>%s</b>",
		msgStatusNotFound:   "No ticket with that number was found for this chat.",
	},
	LangHindi: {
		msgChooseLanguage:   "स्मार्ट शिकायत प्रणाली में आपका स्वागत है। कृपया अपनी भाषा चुनें।",
		msgChooseCategory:   "आपकी शिकायत किस बारे में है? एक श्रेणी चुनें:\n%s",
		msgAskDescription:   "कृपया समस्या का विवरण कुछ वाक्यों में लिखें (कम से कम 10 अक्षर)।",
		msgDescriptionShort: "विवरण बहुत छोटा है। कृपया कम से कम 10 अक्षर लिखें।",
		msgAskLocation:      "समस्या कहाँ है? लोकेशन पिन भेजें या पता लिखें।",
		msgLocationShort:    "स्थान बहुत छोटा है। कृपया कम से कम 3 अक्षर लिखें या लोकेशन पिन भेजें।",
		msgConfirmSummary:   "कृपया अपनी शिकायत जाँचें:\n\n<b>श्रेणी:</b> %s\n<b>विवरण:</b> %s\n<b>स्थान:</b> %s\n\nजमा करें?",
		msgSubmitted:        "आपकी शिकायत दर्ज हो गई है। टिकट नंबर: <b>%s</b>\nस्थिति देखने के लिए /status %s भेजें।",
		msgSubmitFailed:     "क्षमा करें, अभी शिकायत दर्ज नहीं हो सकी। आपका विवरण सुरक्षित है — कृपया थोड़ी देर में फिर से जमा करें।",
		msgCancelled:        "रद्द किया गया। नई शिकायत के लिए /start भेजें।",
		msgIdleNudge:        "शिकायत दर्ज करने के लिए /start भेजें, या स्थिति के लिए /status <टिकट नंबर>।",
		msgHelp:             "कमांड:\n/start — नई शिकायत\n/cancel — ड्राफ़्ट रद्द करें\n/status <टिकट नंबर> — स्थिति देखें\n/help — यह संदेश",
		msgClarify:          "क्षमा करें, समझ नहीं आया। कमांड सूची के लिए /help भेजें।",
		msgStatusUsage:      "उपयोग: /status <टिकट नंबर>, जैसे /status GRV-TG-ABC123-42",
		msgStatusReply:      "टिकट <b>%s</b> की वर्तमान स्थिति: <b>%s</b>",
		msgStatusNotFound:   "इस चैट के लिए उस नंबर का कोई टिकट नहीं मिला।",
	},
	LangMarathi: {
		msgChooseLanguage:   "स्मार्ट तक्रार प्रणालीमध्ये आपले स्वागत आहे. कृपया आपली भाषा निवडा.",
		msgChooseCategory:   "आपली तक्रार कशाबद्दल आहे? एक श्रेणी निवडा:\n%s",
		msgAskDescription:   "कृपया समस्येचे वर्णन काही वाक्यांत लिहा (किमान 10 अक्षरे).",
		msgDescriptionShort: "वर्णन खूप लहान आहे. कृपया किमान 10 अक्षरे लिहा.",
		msgAskLocation:      "समस्या कुठे आहे? लोकेशन पिन पाठवा किंवा पत्ता लिहा.",
		msgLocationShort:    "ठिकाण खूप लहान आहे. कृपया किमान 3 अक्षरे लिहा किंवा लोकेशन पिन पाठवा.",
		msgConfirmSummary:   "कृपया आपली तक्रार तपासा:\n\n<b>श्रेणी:</b> %s\n<b>वर्णन:</b> %s\n<b>ठिकाण:</b> %s\n\nसबमिट करायची?",
		msgSubmitted:        "आपली तक्रार नोंदवली गेली आहे. तिकीट क्रमांक: <b>%s</b>\nस्थिती पाहण्यासाठी /status %s पाठवा.",
		msgSubmitFailed:     "क्षमस्व, सध्या तक्रार नोंदवता आली नाही. आपला तपशील जतन केला आहे — कृपया थोड्या वेळाने पुन्हा सबमिट करा.",
		msgCancelled:        "रद्द केले. नवीन तक्रारीसाठी /start पाठवा.",
		msgIdleNudge:        "तक्रार नोंदवण्यासाठी /start पाठवा, किंवा स्थितीसाठी /status <तिकीट क्रमांक>.",
		msgHelp:             "कमांड:\n/start — नवीन तक्रार\n/cancel — मसुदा रद्द करा\n/status <तिकीट क्रमांक> — स्थिती पहा\n/help — हा संदेश",
		msgClarify:          "क्षमस्व, ते समजले नाही. कमांड यादीसाठी /help पाठवा.",
		msgStatusUsage:      "वापर: /status <तिकीट क्रमांक>, उदा. /status GRV-TG-ABC123-42",
		msgStatusReply:      "तिकीट <b>%s</b> ची सध्याची स्थिती: <b>%s</b>",
		msgStatusNotFound:   "या चॅटसाठी त्या क्रमांकाचे तिकीट सापडले नाही.",
	},
}

// stageNames localizes the canonical tracking stages for status replies.
var stageNames = map[string]map[string]string{
	LangEnglish: {"submitted": "Submitted", "accepted": "Accepted", "in_progress": "In progress", "closed": "Closed"},
	LangHindi:   {"submitted": "दर्ज", "accepted": "स्वीकृत", "in_progress": "प्रगति पर", "closed": "बंद"},
	LangMarathi: {"submitted": "नोंदवले", "accepted": "स्वीकारले", "in_progress": "प्रगतीत", "closed": "बंद"},
}

// Msg returns the reply template for (lang, key), falling back to English.
func Msg(lang, key string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return catalog[LangEnglish][key]
}

// MsgF formats the reply template for (lang, key) with args.
func MsgF(lang, key string, args ...any) string {
	return fmt.Sprintf(Msg(lang, key), args...)
}

// Replies composed outside the transition function. Submission and status
// replies depend on effect results (the allocated ticket number, the looked-up
// stage), so the services layer builds them with these helpers instead of the
// FSM returning them.

// SubmittedReply announces a successful submission with its ticket number.
func SubmittedReply(lang, number string) string {
	return MsgF(lang, msgSubmitted, number, number)
}

// SubmitFailedReply tells the citizen the write failed and the draft survives.
func SubmitFailedReply(lang string) string {
	return Msg(lang, msgSubmitFailed)
}

// StatusReply renders a status lookup result with the localized stage name.
func StatusReply(lang, number, stage string) string {
	return MsgF(lang, msgStatusReply, number, StageName(lang, stage))
}

// StatusNotFoundReply renders a failed status lookup.
func StatusNotFoundReply(lang string) string {
	return Msg(lang, msgStatusNotFound)
}

// ClarifyReply renders the generic "did not understand" reply.
func ClarifyReply(lang string) string {
	return Msg(lang, msgClarify)
}

// StageName localizes a canonical stage for display, falling back to the raw
// stage string so an unknown value is still visible.
func StageName(lang, stage string) string {
	if m, ok := stageNames[lang]; ok {
		if s, ok := m[stage]; ok {
			return s
		}
	}
	if s, ok := stageNames[LangEnglish][stage]; ok {
		return s
	}
	return stage
}
