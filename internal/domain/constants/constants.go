package constants

import "time"

// Kalit so'zlar (foydalanuvchi yozadigan yoki tugma yuboradigan matn)
const (
	KeywordEstimate = "カンタン見積り"
	KeywordInquiry  = "お問い合わせ"
	KeywordHandoff  = "#有人チャット"
	KeywordCampaign = "キャンペーン"
	KeywordCatalog  = "catalog"
	KeywordCancel   = "キャンセル"
	CommandStart    = "/start"
)

// Callback (postback) kodlari
const (
	CallbackConsultDesign   = "CONSULT_DESIGN"
	CallbackConsultPersonal = "CONSULT_PERSONAL"
	CallbackConfirmOrder    = "CONFIRM_ORDER:"
	CallbackCancelOrder     = "CANCEL_ORDER:"
	CallbackWebOrder        = "WEB_ORDER"
)

// Foydalanuvchiga yuboriladigan matnlar
const (
	MsgInvalidInput   = "入力内容に誤りがあります。もう一度「カンタン見積り」からやり直してください。"
	MsgFlowCancelled  = "見積りを中止しました。再開する場合は「カンタン見積り」と送信してください。"
	MsgSaveFailed     = "申し訳ありません。見積りの保存に失敗しました。時間をおいて「カンタン見積り」からやり直してください。"
	MsgDuplicateForm  = "二重送信、あるいは不正なリクエストです。"
	MsgErrorPrefix    = "エラーが発生しました: "
	MsgCatalogThanks  = "フォーム送信ありがとうございました！ カタログ送付をお待ちください。"
	MsgQuotationSaved = "見積内容を保存しました。"
	MsgWebOrderSaved  = "ご注文内容を受け付けました。Telegramに届く確認メッセージから注文を確定してください。"
	MsgHealth         = "Bot is running."
)

// Sheet names
const (
	SheetQuotes          = "Simple Estimate_1"
	SheetWebOrders       = "WebOrders"
	SheetCatalogRequests = "CatalogRequests"
)

const (
	// TimestampLayout jadvaldagi sana-vaqt formati
	TimestampLayout = "2006/01/02 15:04:05"
	// QuoteNumberLayout smeta raqami uchun vaqt shabloni
	QuoteNumberLayout = "20060102150405"
	// OrderNumberPrefix web buyurtma raqami prefiksi
	OrderNumberPrefix = "W"
	// DefaultTimezone do'kon vaqt zonasi
	DefaultTimezone = "Asia/Tokyo"
)

// Early discount applies when the usage date is at least this far from the order.
const EarlyDiscountLeadTime = 14 * 24 * time.Hour

// Gemini sozlamalari (FAQ yordamchisi)
const (
	GeminiModelName = "gemini-2.5-flash"
	AITemperature   = 0.3
	AITopK          = 20
	AITopP          = 0.9
	// MaxRetries AI ga so'rov yuborish uchun max urinishlar
	MaxRetries = 3
	// RetryDelay urinishlar orasidagi kutish (soniya)
	RetryDelay = 2
	// AssistantTimeout bitta javob uchun vaqt chegarasi
	AssistantTimeout = 20 * time.Second
)

// Session va forma
const (
	DefaultFormTokenTTL = 2 * time.Hour
	// SessionSweepInterval idle sessiyalarni tozalash davri
	SessionSweepInterval = 5 * time.Minute
)

// Tashqi havolalar
const (
	FAQURL       = "https://graffitees.jp/faq/"
	InstagramURL = "https://www.instagram.com/original_tshirt_3tlab/"
	TikTokURL    = "https://www.tiktok.com/@3tlab_original_tshirt"
)
