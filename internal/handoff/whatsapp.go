// Package handoff delivers placed orders to the restaurant over messaging channels.
package handoff

import (
	"net/url"
	"strings"
)

const whatsAppBaseURL = "https://wa.me/"

// Digits strips everything but 0-9 from a phone number
func Digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppURL builds a click-to-chat link carrying message as pre-filled text.
// Spaces are encoded as %20 rather than "+".
func WhatsAppURL(number, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsAppBaseURL + Digits(number) + "?text=" + text
}
