// Package extract turns chatbot conversation captures into messages.
package extract

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/ppiankov/replyscore/internal/model"
)

var (
	// [15:27, 06/02/2025] Futurotec Homologação: Olá!
	iosLinePattern = regexp.MustCompile(`^\[(\d{1,2}:\d{2}(?::\d{2})?), (\d{1,2}/\d{1,2}/\d{2,4})\] ([^:]+): ?(.*)$`)

	// 06/02/2025 15:27 - Futurotec Homologação: Olá!
	androidLinePattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}) - ([^:]+): ?(.*)$`)
)

// WhatsApp inserts direction marks around names and attachments
var invisibleReplacer = strings.NewReplacer("\u200e", "", "\u200f", "", "\ufeff", "")

// ParseTranscript parses a WhatsApp text export. Lines that do not start a
// new message continue the previous one; lines before the first message are
// ignored.
func ParseTranscript(r io.Reader) ([]model.Message, error) {
	var messages []model.Message

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(invisibleReplacer.Replace(scanner.Text()), "\r")

		if msg, ok := parseLine(line); ok {
			messages = append(messages, msg)
			continue
		}

		if len(messages) == 0 {
			continue
		}
		last := &messages[len(messages)-1]
		if last.Text == "" {
			last.Text = strings.TrimSpace(line)
		} else {
			last.Text += "\n" + line
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for i := range messages {
		messages[i].Text = strings.TrimSpace(messages[i].Text)
	}

	return messages, nil
}

// ParseTranscriptString is ParseTranscript over a string
func ParseTranscriptString(text string) []model.Message {
	// strings.Reader never fails and lines are bounded by the scanner buffer
	messages, _ := ParseTranscript(strings.NewReader(text))
	return messages
}

func parseLine(line string) (model.Message, bool) {
	if m := iosLinePattern.FindStringSubmatch(line); m != nil {
		return model.Message{Time: m[1], Date: m[2], Sender: strings.TrimSpace(m[3]), Text: m[4]}, true
	}
	if m := androidLinePattern.FindStringSubmatch(line); m != nil {
		return model.Message{Date: m[1], Time: m[2], Sender: strings.TrimSpace(m[3]), Text: m[4]}, true
	}
	return model.Message{}, false
}

// BotMessages returns the non-empty messages sent by sender, in order.
// An empty sender keeps every non-empty message.
func BotMessages(messages []model.Message, sender string) []model.Message {
	sender = strings.TrimSpace(sender)

	var out []model.Message
	for _, m := range messages {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		if sender != "" && m.Sender != sender {
			continue
		}
		out = append(out, m)
	}
	return out
}
