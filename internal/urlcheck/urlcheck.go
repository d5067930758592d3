// Package urlcheck classifies the text a user wants to encode. Only empty
// input and a short list of dangerous schemes are refused; anything else is
// encodable, with an advisory when it does not parse as an absolute URL.
package urlcheck

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	MsgBlockedScheme = "This URL scheme is not allowed."
	MsgNotAURL       = "This doesn't look like a valid URL, but a QR code will still be generated."
)

var blockedSchemes = []string{"javascript:", "data:", "vbscript:", "file:"}

type Result struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

func Validate(text string) Result {
	cleaned := strings.TrimLeftFunc(text, func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
	if cleaned == "" {
		return Result{}
	}

	lower := strings.ToLower(cleaned)
	for _, scheme := range blockedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return Result{IsValid: false, Message: MsgBlockedScheme}
		}
	}

	if !isAbsoluteURL(strings.TrimRightFunc(cleaned, unicode.IsSpace)) {
		return Result{IsValid: true, Message: MsgNotAURL}
	}
	return Result{IsValid: true}
}

func isAbsoluteURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss", "ftp":
		return u.Host != ""
	}
	return true
}
