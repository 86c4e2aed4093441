package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"chatdesk/config"
	appmodel "chatdesk/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

const (
	codeBar      = "┃"
	referenceCap = 200
)

// renderTranscript builds the viewport body for one conversation
func renderTranscript(messages []Message, emptyText string, pendingLine string, width int) string {
	if len(messages) == 0 && pendingLine == "" {
		return DimStyle.Render(emptyText)
	}

	var content strings.Builder

	for _, msg := range messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch msg.Role {
		case appmodel.RoleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), msg.Rendered))
		default:
			role := AssistantStyle.Render("Assistant")
			content.WriteString(fmt.Sprintf("%s %s\n%s\n", timestamp, role, strings.TrimRight(msg.Rendered, "\n")))
			if refs := formatAuxContext(msg.Context, width); refs != "" {
				content.WriteString(refs)
			}
			content.WriteString("\n")
		}
	}

	if pendingLine != "" {
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), pendingLine))
	}

	return content.String()
}

func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render(codeBar)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))

	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

// formatAuxContext lists reference texts and image links under an answer
func formatAuxContext(ctx *appmodel.AuxContext, width int) string {
	if ctx.Empty() {
		return ""
	}

	maxWidth := width - 8
	if maxWidth < 20 {
		maxWidth = 20
	}

	var b strings.Builder
	b.WriteString(DimStyle.Render("References") + "\n")

	n := 1
	for _, text := range ctx.Texts {
		snippet := strings.Join(strings.Fields(text), " ")
		if r := []rune(snippet); len(r) > referenceCap {
			snippet = string(r[:referenceCap])
		}
		b.WriteString(DimStyle.Render(fmt.Sprintf("  [%d] ", n)))
		b.WriteString(truncateToWidth(snippet, maxWidth))
		b.WriteString("\n")
		n++
	}
	for i, loc := range ctx.Images {
		b.WriteString(DimStyle.Render(fmt.Sprintf("  [%d] image %d: ", n, i+1)))
		b.WriteString(HighlightStyle.Render(loc))
		b.WriteString("\n")
		n++
	}

	return b.String()
}

// renderMarkdownAsync renders one assistant message off the event loop
func renderMarkdownAsync(view Tab, messageID, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		rendered := renderMarkdown(content, width)

		config.Log.Debug().
			Str("component", "ui").
			Str("view", view.viewKey()).
			Int("chars", len(content)).
			Dur("elapsed", time.Since(start)).
			Msg("markdown rendered")

		return markdownRenderedMsg{
			View:      view.viewKey(),
			MessageID: messageID,
			Rendered:  rendered,
		}
	}
}

func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}

	// Links become bare URLs so the terminal can detect them
	content = preprocessLinks(content)

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, r)

	return postProcessMarkdown(string(rendered), width)
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = colorURLs(rendered)
	rendered = frameCodeBlocks(rendered, width)
	return strings.TrimRight(rendered, "\n")
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the renderer's blue-background inline code for red text
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's per-line bar with a ruled block
func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"
	ruleWidth := width - 4
	if ruleWidth < 10 {
		ruleWidth = 10
	}

	closeBlock := func() {
		result = append(result, "", darkGray+strings.Repeat("━", ruleWidth)+reset, "")
	}

	for _, line := range lines {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				label := "[code]"
				left := (ruleWidth - len(label)) / 2
				right := ruleWidth - len(label) - left
				result = append(result, "",
					darkGray+strings.Repeat("━", left)+reset+label+darkGray+strings.Repeat("━", right)+reset,
					"")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}

		if inCodeBlock {
			closeBlock()
			inCodeBlock = false
		}
		result = append(result, line)
	}

	if inCodeBlock {
		closeBlock()
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// transcriptText is the plain-text form used for clipboard copies
func transcriptText(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		role := "Assistant"
		if msg.Role == appmodel.RoleUser {
			role = "You"
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n", msg.Timestamp.Format("15:04"), role, msg.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}

func lastAssistant(messages []Message) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == appmodel.RoleAssistant {
			return messages[i], true
		}
	}
	return Message{}, false
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
