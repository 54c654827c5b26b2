package speech

// Spoken strings live here. Keep them short; the TTS engine handles
// inflection.

func LineWelcome() string {
	return "Ready. Describe the code you want."
}

func LineBye() string {
	return "Bye."
}
