// Package util holds the JSON envelopes shared by the API handlers.
package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}

// List wraps a collection together with its length under key and "count".
func List[T any](key string, items []T) Envelope {
	if items == nil {
		items = []T{}
	}
	return Envelope{key: items, "count": len(items)}
}
