package assistant

import "fmt"

// Prompts live here so wording changes are a single-file edit. The trailing
// "# Code:" style markers steer the model toward answering with the
// artefact only.

func promptGenerate(description, language string) string {
	return fmt.Sprintf("Write a %s function based on the following description:\n\n%s\n\n# Code:",
		language, description)
}

func promptComment(line, language string) string {
	return fmt.Sprintf("Add a brief inline comment to the following %s code snippet, "+
		"explaining what it does:\n\n%s\n\n# Comment:", language, line)
}

func promptExplain(code, language string) string {
	return fmt.Sprintf("Explain the following %s code in a simple and clear manner, "+
		"focusing on its logic and purpose:\n\n%s\n\n# Explanation:", language, code)
}
