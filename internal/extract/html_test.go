package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTML(t *testing.T) {
	page := `
	<html>
	<head><style>.message-text { color: red }</style></head>
	<body>
		<div class="message-in"><div class="message-text copyable">Olá!   Sou o   assistente.</div></div>
		<script>var x = "<div class='message-text'>nope</div>";</script>
		<div class="message-text">Você tem um exame de <b>ULTRASSONOGRAFIA</b>.<br>Laudo em 03/02/2025.</div>
		<div class="message-text">   </div>
		<div class="message-text-extra">ignorar</div>
	</body>
	</html>
	`

	messages, err := ParseHTML(strings.NewReader(page), "")
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "Olá! Sou o assistente.", messages[0].Text)
	assert.Equal(t, "Você tem um exame de ULTRASSONOGRAFIA .\nLaudo em 03/02/2025.", messages[1].Text)
	assert.Empty(t, messages[0].Sender)
}

func TestParseHTML_CustomClass(t *testing.T) {
	page := `<ul><li class="bubble">um</li><li class="bubble"><span class="bubble">dois</span></li></ul>`

	messages, err := ParseHTML(strings.NewReader(page), "bubble")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "um", messages[0].Text)
	assert.Equal(t, "dois", messages[1].Text)
}
