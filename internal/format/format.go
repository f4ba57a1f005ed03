// Package format renders executor results as chat text. Everything here is
// pure: the same result and descriptor always produce the same string.
package format

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/amin-farahmand/mikrotik-ai-chatbot/internal/executor"
	"github.com/amin-farahmand/mikrotik-ai-chatbot/pkg/models"
)

const (
	MsgNoResults = "No results found or command executed successfully."

	recordSeparator = "\n\n---\n\n"
)

func Format(result executor.Result, desc *models.CommandDescriptor) string {
	if result.IsMessage() {
		return result.Message
	}
	if len(result.Records) == 0 {
		return MsgNoResults
	}

	var b strings.Builder

	if desc.IsDHCPLease() {
		fmt.Fprintf(&b, "Found %d active client(s) online.%s", CountActiveLeases(result.Records), recordSeparator)
	}

	for _, record := range result.Records {
		lines := make([]string, 0, len(record))
		for _, f := range record {
			lines = append(lines, fmt.Sprintf("%s: %s", Label(f.Key), f.Value))
		}
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString(recordSeparator)
	}

	return b.String()
}

func CountActiveLeases(records []models.Record) int {
	count := 0
	for _, r := range records {
		if r.IsActiveLease() {
			count++
		}
	}
	return count
}

// Label turns a RouterOS field name into a display label: hyphens become
// spaces, a letter that follows a non-letter is upper-cased and every other
// letter is lower-cased ("mac-address" -> "Mac Address", "tx-ccq" -> "Tx Ccq").
func Label(key string) string {
	runes := []rune(strings.ReplaceAll(key, "-", " "))
	prevLetter := false

	for i, r := range runes {
		if unicode.IsLetter(r) {
			if prevLetter {
				runes[i] = unicode.ToLower(r)
			} else {
				runes[i] = unicode.ToUpper(r)
			}
			prevLetter = true
			continue
		}
		prevLetter = false
	}

	return string(runes)
}
