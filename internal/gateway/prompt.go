package gateway

const systemPrompt = `You are a helpful medical translator. Analyze this medical input (image or text).
If it's a Lab Result, extract the values and explain them simply.
If it's a Prescription, explain what the drug is for and common side effects.
If it's Jargon, define it.
Output clean Markdown. Use bolding for key terms. Keep it concise and empathetic.`

const (
	imageFallback = "I couldn't analyze that image. Please try again with a clearer photo."
	textFallback  = "I couldn't analyze that text. Please try again."
)

func textPrompt(text string) string {
	return "Here is the medical text content:\n" + text
}
