// Package layout holds the page shell shared by every web page.
package layout

// FlashMessage is a one-shot notice shown on the next page
type FlashMessage struct {
	Type    string // success, error or info
	Message string
}

// PageData is what the shell needs from every page
type PageData struct {
	Title string
	Flash *FlashMessage
	// IsAdmin shows the coach navigation and logout button
	IsAdmin bool
}
