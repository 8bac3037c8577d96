package entity

// Image carousel elementi. Label bo'sh bo'lmasa, rasm ostidagi tugma matni.
type Image struct {
	URL     string
	Caption string
	Label   string
}

// Action is a postback (Data) or link (URL) button.
type Action struct {
	Label string
	Data  string
	URL   string
}

// Reply transport-neutral outgoing message. The telegram delivery layer
// renders Images as a photo/media group, Choices as a reply keyboard whose
// button text is sent back verbatim, and Actions as an inline keyboard.
type Reply struct {
	Text           string
	Images         []Image
	Choices        [][]string
	Actions        [][]Action
	RemoveKeyboard bool
}

// TextReply oddiy matnli javob
func TextReply(text string) Reply {
	return Reply{Text: text}
}
