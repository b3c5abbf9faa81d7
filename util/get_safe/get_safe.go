package getsafe

import "github.com/qdrant/go-client/qdrant"

func String(payload map[string]*qdrant.Value, key string) string {
	if v, ok := payload[key]; ok && v != nil {
		return v.GetStringValue()
	}
	return ""
}

func StringOr(payload map[string]*qdrant.Value, key string, fallback string) string {
	if s := String(payload, key); len(s) > 0 {
		return s
	}
	return fallback
}
