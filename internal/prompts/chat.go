package prompts

import (
	"fmt"
	"strings"
)

// HistoryEntry is one prior turn supplied with a chat request.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	// chatHistoryWindow caps how many prior turns are replayed into the
	// prompt; older turns are dropped to save tokens.
	chatHistoryWindow = 3

	// chatHistoryTruncate caps how much of each replayed turn survives.
	chatHistoryTruncate = 200
)

// Chat builds the conversational prompt. When the message carries uploaded
// file content (marked with "File:" and "Extracted content:"), the prompt
// switches to file-analysis instructions.
func Chat(message string, history []HistoryEntry) string {
	msg := strings.TrimSpace(message)
	isFileUpload := strings.Contains(msg, "File:") && strings.Contains(msg, "Extracted content:")

	var context strings.Builder
	if len(history) > 0 {
		context.WriteString("CONVERSATION HISTORY:\n")
		start := len(history) - chatHistoryWindow
		if start < 0 {
			start = 0
		}
		for _, entry := range history[start:] {
			role := strings.ToUpper(entry.Role)
			if role == "" {
				role = "USER"
			}
			content := entry.Content
			if len(content) > chatHistoryTruncate {
				content = content[:chatHistoryTruncate]
			}
			fmt.Fprintf(&context, "%s: %s...\n", role, content)
		}
		context.WriteString("\n")
	}

	if isFileUpload {
		return "You are StudyMind AI, an intelligent study companion. " +
			"A student has uploaded a file and you need to analyze its content.\n\n" +
			"INSTRUCTIONS:\n" +
			"1. Focus ONLY on the extracted content from the uploaded file\n" +
			"2. If the student asks a question, answer it based on the file content\n" +
			"3. If no specific question is asked, provide a comprehensive summary of the file\n" +
			"4. Identify key concepts, main topics, and important points\n" +
			"5. Use markdown formatting for better readability\n" +
			"6. Be specific and reference actual content from the file\n\n" +
			context.String() +
			fmt.Sprintf("FILE CONTENT AND USER REQUEST:\n%s\n\nYOUR ANALYSIS:", msg)
	}

	return "You are StudyMind AI, an intelligent study companion for students. " +
		"You help students learn by:\n" +
		"- Answering questions about any topic\n" +
		"- Explaining concepts in simple terms\n" +
		"- Analyzing uploaded study materials\n" +
		"- Creating summaries and study aids\n" +
		"- Providing educational guidance\n\n" +
		"Be helpful, clear, and encouraging. Use examples when appropriate. " +
		"Format your responses with markdown for better readability.\n\n" +
		context.String() +
		fmt.Sprintf("STUDENT MESSAGE: %s\n\nYOUR RESPONSE:", msg)
}
