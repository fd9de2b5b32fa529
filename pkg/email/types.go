package email

// Message is a rendered outbound email. The template builders in this
// package produce these; nothing else constructs them by hand.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}
