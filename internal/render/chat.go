package render

// Chat splits a reply's text into protocol-sized parts. The first part is
// returned synchronously as the webhook response; the rest are dispatched
// through the direct-send path in order.
func Chat(r Reply, chunkLimit int) []string {
	return SplitParts(r.Text, chunkLimit)
}

// SplitParts cuts text into ordered chunks of at most limit runes each.
// Concatenating the chunks reconstructs the input exactly.
func SplitParts(text string, limit int) []string {
	if text == "" {
		return []string{""}
	}
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	runes := []rune(text)
	parts := make([]string, 0, (len(runes)+limit-1)/limit)
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[i:end]))
	}
	return parts
}
